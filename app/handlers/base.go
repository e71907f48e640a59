package handlers

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/Rakhulsr/go-shop/app/helpers"
	"github.com/Rakhulsr/go-shop/app/models"
	"github.com/Rakhulsr/go-shop/app/services"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

const maxUploadMemory = 32 << 20

type detail struct {
	Detail string `json:"detail"`
}

// Base carries what every resource handler needs to read requests and write
// responses.
type Base struct {
	render  *render.Render
	storage services.FileStorage
}

func NewBase(r *render.Render, storage services.FileStorage) *Base {
	return &Base{render: r, storage: storage}
}

func caller(r *http.Request) *models.User {
	return helpers.CallerFrom(r.Context())
}

func requestID(r *http.Request) string {
	return helpers.RequestIDFrom(r.Context())
}

// pathID reads the {id} route variable. The routes only match digits, so a
// zero here means the id overflowed.
func pathID(r *http.Request) uint {
	return helpers.ParseID(mux.Vars(r)["id"])
}

func (b *Base) ok(w http.ResponseWriter, v interface{}) {
	b.render.JSON(w, http.StatusOK, v)
}

func (b *Base) created(w http.ResponseWriter, location string) {
	if location != "" {
		w.Header().Set("Location", location)
	}
	w.WriteHeader(http.StatusCreated)
}

func (b *Base) noContent(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
}

// fail maps service and decoding errors onto status codes.
func (b *Base) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr *services.ValidationError
	var ferr helpers.FieldErrors
	var perr *helpers.ParseError

	switch {
	case errors.As(err, &verr):
		b.render.JSON(w, http.StatusBadRequest, verr.Fields)
	case errors.As(err, &ferr):
		b.render.JSON(w, http.StatusBadRequest, ferr)
	case errors.As(err, &perr):
		b.render.JSON(w, http.StatusBadRequest, detail{perr.Detail})
	case errors.Is(err, services.ErrBadCredential):
		b.render.JSON(w, http.StatusBadRequest, map[string][]string{
			services.NonFieldErrors: {"Unable to log in with provided credentials."},
		})
	case errors.Is(err, services.ErrNotFound):
		b.render.JSON(w, http.StatusNotFound, detail{"Not found."})
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrInvalidToken):
		b.render.JSON(w, http.StatusForbidden, detail{"You do not have permission to perform this action."})
	case errors.Is(err, services.ErrMethodNotAllowed):
		b.render.JSON(w, http.StatusMethodNotAllowed, detail{"Method \"" + r.Method + "\" not allowed."})
	case errors.Is(err, services.ErrPaymentUnavailable):
		b.render.JSON(w, http.StatusServiceUnavailable, detail{"Payments are not available."})
	default:
		zap.S().Errorw("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", requestID(r),
			"error", err,
		)
		b.render.JSON(w, http.StatusInternalServerError, detail{"A server error occurred."})
	}
}

// payload is a decoded request body together with its uploaded files.
type payload struct {
	form *multipart.Form
}

// Uploads opens the files sent under field. Close releases them.
func (p *payload) Uploads(field string) ([]services.Upload, error) {
	if p.form == nil {
		return nil, nil
	}
	headers := p.form.File[field]
	uploads := make([]services.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeUploads(uploads)
			return nil, err
		}
		uploads = append(uploads, services.Upload{Filename: fh.Filename, Content: f})
	}
	return uploads, nil
}

func (p *payload) Close() {
	if p.form != nil {
		_ = p.form.RemoveAll()
	}
}

func closeUploads(uploads []services.Upload) {
	for _, up := range uploads {
		if c, ok := up.Content.(interface{ Close() error }); ok {
			_ = c.Close()
		}
	}
}

// decode fills dst from a JSON, urlencoded or multipart body. An empty body
// leaves dst untouched.
func (b *Base) decode(r *http.Request, dst interface{}) (*payload, error) {
	p := &payload{}
	if r.Body == nil || r.ContentLength == 0 && r.Header.Get("Content-Type") == "" {
		return p, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case mediaType == "multipart/form-data":
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			return p, &helpers.ParseError{Detail: "Multipart form parse error - " + err.Error()}
		}
		p.form = r.MultipartForm
		return p, helpers.DecodeForm(r.MultipartForm.Value, dst)
	case mediaType == "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return p, &helpers.ParseError{Detail: err.Error()}
		}
		return p, helpers.DecodeForm(r.PostForm, dst)
	case mediaType == "" || mediaType == "application/json" || strings.HasSuffix(mediaType, "+json"):
		return p, helpers.DecodeJSON(r.Body, dst)
	default:
		return p, &helpers.ParseError{Detail: "Unsupported media type \"" + mediaType + "\" in request."}
	}
}

func (b *Base) imageURL(img models.Image) string {
	return b.storage.URL(img.File)
}
