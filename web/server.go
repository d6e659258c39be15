// Copyright 2018 Fabian Wenzelmann
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"net/http"
	"strconv"
	"sync"
	"time"

	curvedline "github.com/Ian-Parberry/findthecurvedlinememe"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	log "github.com/sirupsen/logrus"
)

var (
	// ErrAlreadyHandled is returned by handlers that wrote an error response.
	ErrAlreadyHandled = errors.New("Error was already handled")

	// ErrResponseWritten is returned by handlers that wrote a successful
	// response themselves, for example an image.
	ErrResponseWritten = errors.New("Response was already written")
)

const (
	VarKey    = "var"
	ValueKey  = "value"
	LayoutKey = "layout"
)

// Context is shared by all handlers. Contexts must be created with
// NewContext.
type Context struct {
	Storage    ConnectionStorage
	Variants   curvedline.VariantSet
	Background color.NRGBA
	// Seeder returns the seed of new sessions.
	Seeder func() uint64

	locks *sessionLocks
}

// sessionLocks serializes the requests of a session so that no update is
// lost between loading and saving its state. Sessions share a fixed number of
// mutexes selected by the last byte of the id, which is random.
//
// The locks only cover the requests of one process. Backends sharing a redis
// storage may still interleave requests for the same session.
type sessionLocks [64]sync.Mutex

func (l *sessionLocks) lock(id ConnectionID) func() {
	m := &l[int(id[len(id)-1])%len(l)]
	m.Lock()
	return m.Unlock
}

// NewContext returns a context serving mosaics of variants.
func NewContext(storage ConnectionStorage, variants curvedline.VariantSet, background color.Color) *Context {
	return &Context{
		Storage:    storage,
		Variants:   variants,
		Background: color.NRGBAModel.Convert(background).(color.NRGBA),
		Seeder:     curvedline.SeedFromTime,
		locks:      new(sessionLocks),
	}
}

type HandlerFunc func(context *Context, w http.ResponseWriter, r *http.Request) (interface{}, error)

func statusFor(err error) int {
	switch curvedline.GetCode(err) {
	case curvedline.ErrCodeNotFound:
		return http.StatusNotFound
	case curvedline.ErrCodeAllocation:
		return http.StatusRequestEntityTooLarge
	case curvedline.ErrCodeInvalidInput, curvedline.ErrCodeUnsupported, curvedline.ErrCodePrecondition:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("Error in request")
		http.Error(w, "Internal Server Error", status)
		return
	}
	http.Error(w, curvedline.UserMessage(err), status)
}

func writeJSON(w http.ResponseWriter, jsonData interface{}) {
	jData, jErr := json.Marshal(jsonData)
	if jErr != nil {
		log.WithError(jErr).Error("Internal error: Can't marshal json")
		http.Error(w, "Internal Server Error", 500)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(jData)
}

func ToHTTPFunc(context *Context, handler HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jsonData, err := handler(context, w, r)
		switch {
		case err == nil:
			writeJSON(w, jsonData)
		case err == ErrAlreadyHandled, err == ErrResponseWritten:
		default:
			writeError(w, err)
		}
	}
}

// JSONMap is a decoded JSON request, numbers are json.Number.
type JSONMap map[string]interface{}

func (m JSONMap) GetString(key string) (string, error) {
	val, has := m[key]
	if !has {
		return "", fmt.Errorf("Key not found: %s", key)
	}
	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("Entry for %s not of type string", key)
	}
	return str, nil
}

func (m JSONMap) GetInt(key string) (int, error) {
	val, has := m[key]
	if !has {
		return -1, fmt.Errorf("Key not found: %s", key)
	}
	num, ok := val.(json.Number)
	if !ok {
		return -1, fmt.Errorf("Entry for %s not of type int", key)
	}
	asInt, err := strconv.Atoi(num.String())
	if err != nil {
		return -1, fmt.Errorf("Entry for %s not of type int", key)
	}
	return asInt, nil
}

func (m JSONMap) GetUint64(key string) (uint64, error) {
	val, has := m[key]
	if !has {
		return 0, fmt.Errorf("Key not found: %s", key)
	}
	num, ok := val.(json.Number)
	if !ok {
		return 0, fmt.Errorf("Entry for %s not of type uint", key)
	}
	asUint, err := strconv.ParseUint(num.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("Entry for %s not of type uint", key)
	}
	return asUint, nil
}

func (m JSONMap) GetBool(key string) (bool, error) {
	val, has := m[key]
	if !has {
		return false, fmt.Errorf("Key not found: %s", key)
	}
	asBool, ok := val.(bool)
	if !ok {
		return false, fmt.Errorf("Entry for %s not of type bool", key)
	}
	return asBool, nil
}

func ProcessRequest(w http.ResponseWriter, r *http.Request) (JSONMap, error) {
	if r.Body == nil || r.Body == http.NoBody {
		http.Error(w, "No request body given", 400)
		return nil, ErrAlreadyHandled
	}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	m := make(map[string]interface{})
	err := dec.Decode(&m)
	if err != nil {
		http.Error(w,
			fmt.Sprintf("Invalid request, expected valid JSON, got: %s", err.Error()),
			400)
		return nil, ErrAlreadyHandled
	}
	return m, nil
}

// StateHandlerFunc handles requests for a single session. Changes to state
// are saved after the handler returns without error.
type StateHandlerFunc func(state *State, context *Context, w http.ResponseWriter, r *http.Request) (interface{}, error)

func connectionFromURL(w http.ResponseWriter, r *http.Request) (ConnectionID, error) {
	connectionID, parseErr := ParseConnectionID(chi.URLParam(r, "id"))
	if parseErr != nil {
		http.Error(w, curvedline.UserMessage(parseErr), 400)
		return connectionID, ErrAlreadyHandled
	}
	return connectionID, nil
}

func StateHandlerToHTTPFunc(context *Context, handler StateHandlerFunc) http.HandlerFunc {
	mosaicHandler := func(context *Context, w http.ResponseWriter, r *http.Request) (interface{}, error) {
		connectionID, idErr := connectionFromURL(w, r)
		if idErr != nil {
			return nil, idErr
		}
		unlock := context.locks.lock(connectionID)
		defer unlock()
		// get connection from context
		state, connErr := context.Storage.Get(r.Context(), connectionID)
		if connErr != nil {
			return nil, connErr
		}
		state.Touch(time.Now().UTC())
		res, err := handler(state, context, w, r)
		if err != nil && err != ErrResponseWritten {
			return nil, err
		}
		if setErr := context.Storage.Set(r.Context(), connectionID, state); setErr != nil {
			if err == ErrResponseWritten {
				log.WithError(setErr).Error("Can't save session")
				return nil, err
			}
			return nil, setErr
		}
		return res, err
	}
	return ToHTTPFunc(context, mosaicHandler)
}

func describeState(id string, state *State) map[string]interface{} {
	res := map[string]interface{}{
		"layout":          state.Layout.String(),
		"cells":           state.Cells,
		"seed":            state.Seed,
		"created":         state.Created,
		"last_connection": state.LastConnection,
	}
	if id != "" {
		res["connection"] = id
	}
	return res
}

// InitHandler creates a new session showing the original layout.
func InitHandler(context *Context, w http.ResponseWriter, r *http.Request) (interface{}, error) {
	uuid, uuidErr := GenConnectionID()
	if uuidErr != nil {
		return nil, uuidErr
	}
	state, stateErr := NewState(context.Seeder())
	if stateErr != nil {
		return nil, stateErr
	}
	if err := context.Storage.Set(r.Context(), uuid, state); err != nil {
		return nil, err
	}
	log.WithField("connection", uuid.String()).Debug("New session")
	return describeState(uuid.String(), state), nil
}

// DeleteHandler ends a session.
func DeleteHandler(context *Context, w http.ResponseWriter, r *http.Request) (interface{}, error) {
	connectionID, idErr := connectionFromURL(w, r)
	if idErr != nil {
		return nil, idErr
	}
	if err := context.Storage.Delete(r.Context(), connectionID); err != nil {
		return nil, err
	}
	return map[string]bool{"success": true}, nil
}

func GetStateHandler(state *State, context *Context, w http.ResponseWriter, r *http.Request) (interface{}, error) {
	return describeState("", state), nil
}

// LayoutHandler selects a layout, the request is {"layout": "random"}.
// Every request for the random layout draws a new one.
func LayoutHandler(state *State, context *Context, w http.ResponseWriter, r *http.Request) (interface{}, error) {
	jsonMap, jsonErr := ProcessRequest(w, r)
	if jsonErr != nil {
		return nil, jsonErr
	}
	name, nameErr := jsonMap.GetString(LayoutKey)
	if nameErr != nil {
		http.Error(w, nameErr.Error(), 400)
		return nil, ErrAlreadyHandled
	}
	layout, parseErr := curvedline.ParseLayout(name)
	if parseErr != nil {
		return nil, parseErr
	}
	if err := state.SelectLayout(layout); err != nil {
		return nil, err
	}
	return describeState("", state), nil
}

func GetVarHandler(state *State, context *Context, w http.ResponseWriter, r *http.Request) (interface{}, error) {
	res := map[string]interface{}{
		"jpeg-quality": state.JPGQuality,
		"interp":       state.InterP,
		"upscale":      state.Upscale,
		"seed":         state.Seed,
	}
	return res, nil
}

func SetVarHandler(state *State, context *Context, w http.ResponseWriter, r *http.Request) (interface{}, error) {
	jsonMap, jsonErr := ProcessRequest(w, r)
	if jsonErr != nil {
		return nil, jsonErr
	}
	// get variable
	varName, varErr := jsonMap.GetString(VarKey)
	if varErr != nil {
		http.Error(w, varErr.Error(), 400)
		return nil, ErrAlreadyHandled
	}
	var argErr error
	switch varName {
	case "jpeg-quality":
		var newQuality int
		newQuality, argErr = jsonMap.GetInt(ValueKey)
		if argErr != nil {
			break
		}
		if newQuality < 1 || newQuality > 100 {
			argErr = fmt.Errorf("jpeg-quality must be a value between 1 and 100, got %d", newQuality)
			break
		}
		state.JPGQuality = newQuality
	case "interp":
		var interpName string
		interpName, argErr = jsonMap.GetString(ValueKey)
		if argErr != nil {
			break
		}
		interP, interPParseErr := curvedline.InterPFromString(interpName)
		if interPParseErr != nil {
			argErr = interPParseErr
			break
		}
		state.InterP = curvedline.InterPString(interP)
	case "upscale":
		var upscale bool
		upscale, argErr = jsonMap.GetBool(ValueKey)
		if argErr == nil {
			state.Upscale = upscale
		}
	case "seed":
		var seed uint64
		seed, argErr = jsonMap.GetUint64(ValueKey)
		if argErr != nil {
			break
		}
		argErr = state.Reseed(seed)
	default:
		http.Error(w, fmt.Sprintf("Invalid variable name %s", varName), 400)
		return nil, ErrAlreadyHandled
	}
	if argErr != nil {
		http.Error(w, curvedline.UserMessage(argErr), 400)
		return nil, ErrAlreadyHandled
	}
	res := map[string]bool{"success": true}
	return res, nil
}

// ExportHandler writes the mosaic of the session in the format given by the
// extension in the URL.
func ExportHandler(state *State, context *Context, w http.ResponseWriter, r *http.Request) (interface{}, error) {
	format, formatErr := curvedline.ParseFormat(chi.URLParam(r, "ext"))
	if formatErr != nil {
		return nil, formatErr
	}
	img, imgErr := state.Mosaic(context.Variants, context.Background)
	if imgErr != nil {
		return nil, imgErr
	}
	var buf bytes.Buffer
	opts := curvedline.EncodeOptions{JPGQuality: state.JPGQuality}
	if err := curvedline.Encode(&buf, img, format, opts); err != nil {
		return nil, err
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
	return nil, ErrResponseWritten
}

// PreviewHandler returns the mosaic as it would be shown in a window of the
// size given by the query parameter size (for example 300x200 or 300x),
// base64 encoded. The optional parameter format selects png (default) or jpeg.
func PreviewHandler(state *State, context *Context, w http.ResponseWriter, r *http.Request) (interface{}, error) {
	query := r.URL.Query()
	format := curvedline.FormatPNG
	if f := query.Get("format"); f != "" {
		var formatErr error
		format, formatErr = curvedline.ParseFormat(f)
		if formatErr != nil {
			return nil, formatErr
		}
	}
	img, imgErr := state.Mosaic(context.Variants, context.Background)
	if imgErr != nil {
		return nil, imgErr
	}
	width, height, dimErr := curvedline.ParseCanvas(query.Get("size"), img.Bounds())
	if dimErr != nil {
		return nil, dimErr
	}
	preview, previewErr := curvedline.Preview(img, width, height, state.Resizer(), curvedline.DisplayBackground, state.Upscale)
	if previewErr != nil {
		return nil, previewErr
	}
	encoded, encErr := EncodeBase64(preview, format, curvedline.EncodeOptions{JPGQuality: state.JPGQuality})
	if encErr != nil {
		return nil, encErr
	}
	res := map[string]interface{}{
		"format": string(format),
		"width":  width,
		"height": height,
		"image":  encoded,
	}
	return res, nil
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"took":       time.Since(start),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("Request")
	})
}

// NewRouter returns the routes of the backend:
//
//	POST   /sessions                      create a session
//	GET    /sessions/{id}                 layout and cells of the session
//	DELETE /sessions/{id}                 end the session
//	POST   /sessions/{id}/layout          select a layout
//	GET    /sessions/{id}/vars            get the session variables
//	POST   /sessions/{id}/vars            set a session variable
//	GET    /sessions/{id}/mosaic.{ext}    export the mosaic
//	GET    /sessions/{id}/preview         base64 preview, see PreviewHandler
func NewRouter(context *Context) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Post("/sessions", ToHTTPFunc(context, InitHandler))
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", StateHandlerToHTTPFunc(context, GetStateHandler))
		r.Delete("/", ToHTTPFunc(context, DeleteHandler))
		r.Post("/layout", StateHandlerToHTTPFunc(context, LayoutHandler))
		r.Get("/vars", StateHandlerToHTTPFunc(context, GetVarHandler))
		r.Post("/vars", StateHandlerToHTTPFunc(context, SetVarHandler))
		r.Get("/mosaic.{ext}", StateHandlerToHTTPFunc(context, ExportHandler))
		r.Get("/preview", StateHandlerToHTTPFunc(context, PreviewHandler))
	})
	return r
}
