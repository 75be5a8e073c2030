package importcsv

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tronghieu/ezlib-sub005/internal/http/auth"
	"github.com/tronghieu/ezlib-sub005/internal/http/render"
	"github.com/tronghieu/ezlib-sub005/internal/identity"
	"github.com/tronghieu/ezlib-sub005/internal/importer"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.With(auth.Require(identity.RoleManager)).Post("/import", h.importCSV)
}

type copySummary struct {
	ID         uuid.UUID `json:"id"`
	EditionID  uuid.UUID `json:"edition_id"`
	CopyNumber int       `json:"copy_number"`
	Barcode    *string   `json:"barcode,omitempty"`
}

type importResponse struct {
	Profile  string        `json:"profile"`
	Batches  int           `json:"batches"`
	Imported int           `json:"imported"`
	Copies   []copySummary `json:"copies"`
}

type partialResponse struct {
	render.ErrorResponse
	importResponse
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	libraryID, err := render.LibraryID(r)
	if err != nil {
		render.Error(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		render.Fail(w, http.StatusBadRequest, "validation", "failed to parse form: "+err.Error())
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		render.Fail(w, http.StatusBadRequest, "validation", "file field is required")
		return
	}
	defer file.Close()

	res, err := h.importSvc.Import(r.Context(), libraryID, file)
	if err != nil {
		if res != nil && res.Batches > 0 {
			// Earlier batches committed; report them with the failure.
			render.JSON(w, http.StatusConflict, partialResponse{
				ErrorResponse:  render.ErrorResponse{Error: "partial_import", Message: err.Error()},
				importResponse: toResponse(res),
			})

			return
		}

		render.Error(w, err)

		return
	}

	render.JSON(w, http.StatusCreated, toResponse(res))
}

func toResponse(res *importer.Result) importResponse {
	resp := importResponse{
		Profile:  res.Profile,
		Batches:  res.Batches,
		Imported: len(res.Registered),
		Copies:   make([]copySummary, len(res.Registered)),
	}

	for i, cp := range res.Registered {
		resp.Copies[i] = copySummary{
			ID:         cp.ID,
			EditionID:  cp.EditionID,
			CopyNumber: cp.CopyNumber,
			Barcode:    cp.Barcode,
		}
	}

	return resp
}
