// Package httpapi exposes the discourse parser over HTTP: a thin chi router
// behind bearer-JWT service account authentication.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mmelodious/discourse-parsing/internal/docio"
	"github.com/mmelodious/discourse-parsing/internal/rst"
	"github.com/mmelodious/discourse-parsing/internal/rst/rsterr"
	"github.com/mmelodious/discourse-parsing/internal/store"
)

// API holds the collaborators the HTTP handlers call into: a loaded
// classifier and beam search bounds, the service-account directory and JWT
// secret for AuthHandler, and an optional results cache.
type API struct {
	Classifier rst.Classifier
	Config     rst.Config
	Accounts   ServiceAccountRepository
	Secret     []byte
	Store      *store.Store
}

// Router builds the chi router exposing this API's endpoints.
func (api *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Route("/documents/{id}", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return RequireAuth(api.Accounts, api.Secret, next)
		})
		r.Post("/parse", Endpoint(api.epParseDocument))
		r.Post("/oracle", Endpoint(api.epOracleDocument))
		r.Get("/", Endpoint(api.epGetCachedParse))
	})
	return r
}

// ScoredTreeResponse is one n-best entry in a /parse response: a bracketed
// rendering of the collapsed output tree plus its cumulative log-score.
type ScoredTreeResponse struct {
	Tree  string  `json:"tree"`
	Score float64 `json:"score"`
}

func idParam(req *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(req, "id"))
}

func decodeBody(req *http.Request, v interface{}) error {
	defer req.Body.Close()
	return json.NewDecoder(req.Body).Decode(v)
}

// POST /documents/{id}/parse: runs the beam search over the submitted
// document and returns its n-best derivations, caching them under id if a
// Store is configured.
func (api *API) epParseDocument(req *http.Request) EndpointResult {
	id, err := idParam(req)
	if err != nil {
		return jsonBadRequest("id must be a UUID", "parse path: %s", err)
	}

	var body docio.DocumentJSON
	if err := decodeBody(req, &body); err != nil {
		return jsonBadRequest("malformed JSON request body", "decode: %s", err)
	}

	ctx, err := body.ToContext()
	if err != nil {
		return jsonBadRequest(err.Error(), "build document context: %s", err)
	}

	beam := rst.NewBeam(api.Classifier, api.Config)
	trees, err := beam.Parse(req.Context(), ctx)
	if err != nil {
		return jsonInternalServerError("beam search: %s", err)
	}

	log.Printf("DEBUG n-best derivations for document %s:\n%s", id, rst.TableString(trees))

	resp := make([]ScoredTreeResponse, len(trees))
	for i, t := range trees {
		resp[i] = ScoredTreeResponse{Tree: t.Tree.String(), Score: t.Score}
	}

	if api.Store != nil {
		_ = api.Store.Put(req.Context(), store.Record{DocumentID: id, Trees: trees})
	}

	return jsonOK(resp, "parsed document %s into %d derivation(s)", id, len(trees))
}

// GET /documents/{id}: returns the cached parse result for id, if any.
func (api *API) epGetCachedParse(req *http.Request) EndpointResult {
	id, err := idParam(req)
	if err != nil {
		return jsonBadRequest("id must be a UUID", "get path: %s", err)
	}
	if api.Store == nil {
		return jsonNotFound("no result cache configured")
	}

	rec, err := api.Store.Get(req.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return jsonNotFound("document %s", id)
		}
		return jsonInternalServerError("store get: %s", err)
	}

	resp := make([]ScoredTreeResponse, len(rec.Trees))
	for i, t := range rec.Trees {
		resp[i] = ScoredTreeResponse{Tree: t.Tree.String(), Score: t.Score}
	}
	return jsonOK(resp, "retrieved cached parse for document %s", id)
}

// OracleRequest is the /oracle request body: a document plus its gold
// action sequence, each action given in canonical "<type>:<label>" form.
type OracleRequest struct {
	Document    docio.DocumentJSON `json:"document"`
	GoldActions []string           `json:"gold_actions"`
}

// OraclePairResponse is one (action, features) training pair.
type OraclePairResponse struct {
	Action   string         `json:"action"`
	Features map[string]int `json:"features"`
}

// POST /documents/{id}/oracle: replays a gold action sequence over the
// submitted document and returns the (action, features) training pairs it
// generates.
func (api *API) epOracleDocument(req *http.Request) EndpointResult {
	id, err := idParam(req)
	if err != nil {
		return jsonBadRequest("id must be a UUID", "oracle path: %s", err)
	}

	var body OracleRequest
	if err := decodeBody(req, &body); err != nil {
		return jsonBadRequest("malformed JSON request body", "decode: %s", err)
	}

	docCtx, err := body.Document.ToContext()
	if err != nil {
		return jsonBadRequest(err.Error(), "build document context: %s", err)
	}

	actions := make([]rst.Action, len(body.GoldActions))
	for i, label := range body.GoldActions {
		act, err := rst.ParseActionLabel(label)
		if err != nil {
			return jsonBadRequest(fmt.Sprintf("gold_actions[%d]: %s", i, err), "parse gold action: %s", err)
		}
		actions[i] = act
	}

	var pairs []OraclePairResponse
	oracle := rst.NewOracle()
	err = oracle.Replay(actions, docCtx, func(label string, feats *rst.FeatureSet) error {
		pairs = append(pairs, OraclePairResponse{Action: label, Features: feats.Counts()})
		return nil
	})
	if err != nil {
		if errors.Is(err, rsterr.ErrInvalidGoldAction) || errors.Is(err, rsterr.ErrExhaustedGoldActions) {
			return jsonBadRequest(err.Error(), "oracle replay for document %s: %s", id, err)
		}
		return jsonInternalServerError("oracle replay: %s", err)
	}

	return jsonOK(pairs, "generated %d training pair(s) for document %s", len(pairs), id)
}
