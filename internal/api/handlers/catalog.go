package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/remcenter/repairdesk-backend/internal/api/dto"
	"github.com/remcenter/repairdesk-backend/internal/application/service"
	"github.com/remcenter/repairdesk-backend/internal/domain/catalog"
	"github.com/remcenter/repairdesk-backend/internal/importer"
)

// uploadLimit caps catalog and ledger uploads.
const uploadLimit = 20 << 20 // 20 MiB

// CatalogHandler serves the substitution catalogs: listing, single creates
// and bulk Excel imports.
type CatalogHandler struct {
	*Base
	svc *service.WorkspaceService
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(svc *service.WorkspaceService) *CatalogHandler {
	return &CatalogHandler{Base: NewBase(svc), svc: svc}
}

func onlyActive(r *http.Request) bool {
	return r.URL.Query().Get("all") != "true"
}

// uploadFile extracts the workbook from a multipart upload.
func uploadFile(b *Base, w http.ResponseWriter, r *http.Request) (multipart.File, bool) {
	if err := r.ParseMultipartForm(uploadLimit); err != nil {
		b.WriteError(w, http.StatusBadRequest, dto.ValidationError("invalid multipart form: "+err.Error()))
		return nil, false
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		b.WriteError(w, http.StatusBadRequest, dto.ValidationError("file field is required"))
		return nil, false
	}
	return file, true
}

// ListBearings returns the bearing catalog.
func (h *CatalogHandler) ListBearings(w http.ResponseWriter, r *http.Request) {
	bearings, err := h.svc.Repo().ListBearings(onlyActive(r))
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, bearings)
}

// CreateBearing adds one bearing.
func (h *CatalogHandler) CreateBearing(w http.ResponseWriter, r *http.Request) {
	var b catalog.Bearing
	if !h.Decode(w, r, &b) {
		return
	}
	if b.Designation == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("designation is required"))
		return
	}
	b.IsActive = true
	if err := h.svc.Repo().CreateBearing(&b); err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, b)
}

// ImportBearings bulk-imports bearings from a workbook, skipping known
// designations.
func (h *CatalogHandler) ImportBearings(w http.ResponseWriter, r *http.Request) {
	file, ok := uploadFile(h.Base, w, r)
	if !ok {
		return
	}
	defer func() { _ = file.Close() }()

	bearings, err := importer.ImportBearings(file, h.svc.Logger())
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	inserted, err := h.svc.Repo().CreateBearings(bearings)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.ImportResponse{Imported: inserted})
}

// ListMotors returns the motor catalog.
func (h *CatalogHandler) ListMotors(w http.ResponseWriter, r *http.Request) {
	motors, err := h.svc.Repo().ListMotors(onlyActive(r))
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, motors)
}

// CreateMotor adds one motor.
func (h *CatalogHandler) CreateMotor(w http.ResponseWriter, r *http.Request) {
	var m catalog.Motor
	if !h.Decode(w, r, &m) {
		return
	}
	if m.Name == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("name is required"))
		return
	}
	m.IsActive = true
	if err := h.svc.Repo().CreateMotor(&m); err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, m)
}

// ImportMotors bulk-imports motors from a workbook.
func (h *CatalogHandler) ImportMotors(w http.ResponseWriter, r *http.Request) {
	file, ok := uploadFile(h.Base, w, r)
	if !ok {
		return
	}
	defer func() { _ = file.Close() }()

	motors, err := importer.ImportMotors(file, h.svc.Logger())
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	inserted, err := h.svc.Repo().CreateMotors(motors)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.ImportResponse{Imported: inserted})
}

// ListWires returns the wire catalog.
func (h *CatalogHandler) ListWires(w http.ResponseWriter, r *http.Request) {
	wires, err := h.svc.Repo().ListWires(onlyActive(r))
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, wires)
}

// CreateWire adds one wire.
func (h *CatalogHandler) CreateWire(w http.ResponseWriter, r *http.Request) {
	var wire catalog.Wire
	if !h.Decode(w, r, &wire) {
		return
	}
	if wire.Brand == "" || wire.CrossSection <= 0 {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("brand and cross_section are required"))
		return
	}
	wire.IsActive = true
	if err := h.svc.Repo().CreateWire(&wire); err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, wire)
}

// ImportWires bulk-imports wires from a workbook.
func (h *CatalogHandler) ImportWires(w http.ResponseWriter, r *http.Request) {
	file, ok := uploadFile(h.Base, w, r)
	if !ok {
		return
	}
	defer func() { _ = file.Close() }()

	wires, err := importer.ImportWires(file, h.svc.Logger())
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	inserted, err := h.svc.Repo().CreateWires(wires)
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.ImportResponse{Imported: inserted})
}

// ListEmployees returns the individual employee catalog.
func (h *CatalogHandler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.svc.Repo().ListEmployees(onlyActive(r))
	if err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, employees)
}

// CreateEmployee adds one employee.
func (h *CatalogHandler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var e catalog.IndividualEmployee
	if !h.Decode(w, r, &e) {
		return
	}
	if e.FullName == "" {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("full_name is required"))
		return
	}
	e.IsActive = true
	if err := h.svc.Repo().CreateEmployee(&e); err != nil {
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, e)
}
