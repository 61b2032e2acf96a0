package httpapi

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

// EndpointFunc is a handler that returns an EndpointResult instead of
// writing directly to the ResponseWriter.
type EndpointFunc func(req *http.Request) EndpointResult

// Endpoint adapts an EndpointFunc into an http.HandlerFunc: it recovers any
// panic into an HTTP-500, applies the unauthenticated-request delay to
// HTTP-401/403/500 responses, and writes the result.
func Endpoint(ep EndpointFunc) http.HandlerFunc {
	const unauthDelay = time.Second

	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)
		result := ep(req)

		if result.status == http.StatusUnauthorized || result.status == http.StatusForbidden || result.status == http.StatusInternalServerError {
			time.Sleep(unauthDelay)
		}

		result.writeResponse(w, req)
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) {
	if r := recover(); r != nil {
		res := jsonInternalServerError("panic: %v", r)
		res.writeResponse(w, req)
	}
}

// ErrorResponse is the JSON body of every non-2xx EndpointResult.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func jsonOK(respObj interface{}, internalMsg string, v ...interface{}) EndpointResult {
	return jsonResponse(http.StatusOK, respObj, internalMsg, v...)
}

func jsonCreated(respObj interface{}, internalMsg string, v ...interface{}) EndpointResult {
	return jsonResponse(http.StatusCreated, respObj, internalMsg, v...)
}

func jsonBadRequest(userMsg string, internalMsg string, v ...interface{}) EndpointResult {
	return jsonErr(http.StatusBadRequest, userMsg, internalMsg, v...)
}

func jsonNotFound(internalMsg string, v ...interface{}) EndpointResult {
	return jsonErr(http.StatusNotFound, "The requested resource was not found", internalMsg, v...)
}

func jsonUnauthorized(userMsg string, internalMsg string, v ...interface{}) EndpointResult {
	if userMsg == "" {
		userMsg = "You are not authorized to do that"
	}
	return jsonErr(http.StatusUnauthorized, userMsg, internalMsg, v...).
		withHeader("WWW-Authenticate", `Bearer realm="discourse-parsing"`)
}

func jsonInternalServerError(internalMsg string, v ...interface{}) EndpointResult {
	return jsonErr(http.StatusInternalServerError, "An internal server error occurred", internalMsg, v...)
}

func jsonResponse(status int, respObj interface{}, internalMsg string, v ...interface{}) EndpointResult {
	return EndpointResult{isJSON: true, status: status, internalMsg: fmt.Sprintf(internalMsg, v...), resp: respObj}
}

func jsonErr(status int, userMsg, internalMsg string, v ...interface{}) EndpointResult {
	return EndpointResult{
		isJSON:      true,
		isErr:       true,
		status:      status,
		internalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        ErrorResponse{Error: userMsg, Status: status},
	}
}

// EndpointResult is a pending HTTP response: a status, a JSON body, and the
// message to log internally (never shown to the caller).
type EndpointResult struct {
	isErr       bool
	isJSON      bool
	status      int
	internalMsg string
	resp        interface{}
	hdrs        [][2]string
}

func (r EndpointResult) withHeader(name, val string) EndpointResult {
	r.hdrs = append(append([][2]string(nil), r.hdrs...), [2]string{name, val})
	return r
}

func (r EndpointResult) writeResponse(w http.ResponseWriter, req *http.Request) {
	if r.status == 0 {
		logHTTPResponse("ERROR", req, http.StatusInternalServerError, "endpoint result was never populated")
		http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
		return
	}

	respJSON, err := json.Marshal(r.resp)
	if err != nil {
		res := jsonErr(http.StatusInternalServerError, "An internal server error occurred", "could not marshal JSON response: %s", err)
		res.writeResponse(w, req)
		return
	}

	if r.isErr {
		logHTTPResponse("ERROR", req, r.status, r.internalMsg)
	} else {
		logHTTPResponse("INFO", req, r.status, r.internalMsg)
	}

	for _, h := range r.hdrs {
		w.Header().Set(h[0], h[1])
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(r.status)
	w.Write(respJSON)
}

func logHTTPResponse(level string, req *http.Request, status int, msg string) {
	for len(level) < 5 {
		level += " "
	}
	remoteIP := strings.SplitN(req.RemoteAddr, ":", 2)[0]
	log.Printf("%s %s %s %s: HTTP-%d %s", level, remoteIP, req.Method, req.URL.Path, status, msg)
}
