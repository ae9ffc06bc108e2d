package www

// Small helpers shared by our HTTP handlers. Handlers panic with an HTTPError
// (or any error) and the Handle wrapper turns that into an HTTP response.

import (
	"encoding/json"
	"net/http"

	"github.com/cyclopcam/logs"
	"github.com/julienschmidt/httprouter"
)

func SendJSON(w http.ResponseWriter, obj any) {
	b, err := json.Marshal(obj)
	Check(err)
	w.Header().Set("Content-Type", "application/json")
	w.Write(b)
}

func SendOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("OK"))
}

// ReadJSON decodes the request body into obj, or panics with a 400
func ReadJSON(r *http.Request, obj any) {
	if err := json.NewDecoder(r.Body).Decode(obj); err != nil {
		PanicBadRequestf("Invalid JSON body: %v", err)
	}
}

type httpHandler func(w http.ResponseWriter, r *http.Request, params httprouter.Params)

// Handle registers an HTTP route, wrapping the handler so that a panic'ed
// HTTPError (or any other panic'ed error) becomes the HTTP response.
func Handle(log logs.Log, router *httprouter.Router, method, path string, handle httpHandler) {
	wrapper := func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
		defer func() {
			if rec := recover(); rec != nil {
				switch err := rec.(type) {
				case HTTPError:
					http.Error(w, err.Message, err.Code)
				case error:
					log.Errorf("%v %v: %v", method, path, err)
					http.Error(w, err.Error(), http.StatusInternalServerError)
				default:
					log.Errorf("%v %v: %v", method, path, rec)
					http.Error(w, "Internal server error", http.StatusInternalServerError)
				}
			}
		}()
		handle(w, r, params)
	}
	router.Handle(method, path, wrapper)
}
