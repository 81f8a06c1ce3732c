package api

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/medicore/hospital-portal/internal/appointment"
	"github.com/medicore/hospital-portal/internal/audit"
	"github.com/medicore/hospital-portal/internal/auth"
	"github.com/medicore/hospital-portal/internal/doctor"
	"github.com/medicore/hospital-portal/internal/medservice"
	"github.com/medicore/hospital-portal/internal/patient"
	"github.com/medicore/hospital-portal/internal/store"
	"github.com/medicore/hospital-portal/internal/uploads"
)

// Handler carries the portal services used by the HTTP layer.
type Handler struct {
	doctors      doctor.Service
	services     medservice.Service
	patients     patient.Service
	appointments appointment.Service
	auth         auth.Service
	uploads      uploads.Service
	audit        audit.Service
	store        store.Store
	logger       *zap.Logger
}

func NewHandler(
	doctors doctor.Service,
	services medservice.Service,
	patients patient.Service,
	appointments appointment.Service,
	authService auth.Service,
	uploadService uploads.Service,
	auditService audit.Service,
	st store.Store,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		doctors:      doctors,
		services:     services,
		patients:     patients,
		appointments: appointments,
		auth:         authService,
		uploads:      uploadService,
		audit:        auditService,
		store:        st,
		logger:       logger,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// --- auth ---

func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Profile(c *gin.Context) {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	user, err := h.auth.GetUserByID(c.Request.Context(), session.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// Logout is stateless on the server; tokens simply expire. The endpoint
// exists so the client has somewhere to report the event for auditing.
func (h *Handler) Logout(c *gin.Context) {
	session, _ := auth.SessionFromContext(c)
	_ = h.audit.LogEvent(c.Request.Context(), &audit.AuditEvent{
		EventType: audit.EventLogout,
		UserID:    session.UserID,
		Action:    "LOGOUT",
		Resource:  "user",
		Status:    "success",
	})
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req struct {
		Email    string   `json:"email" binding:"required"`
		Name     string   `json:"name" binding:"required"`
		Password string   `json:"password" binding:"required"`
		Roles    []string `json:"roles"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email, name and password are required"})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Name, req.Password, req.Roles)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		case errors.Is(err, auth.ErrInvalidUserData):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("create user failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
		}
		return
	}
	c.JSON(http.StatusCreated, user)
}

// --- doctors ---

func (h *Handler) ListDoctors(c *gin.Context) {
	list, err := h.doctors.List(c.Request.Context(), c.Query("search"), c.Query("department"))
	if err != nil {
		h.logger.Error("list doctors failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list doctors"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	d, err := h.doctors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, doctor.ErrDoctorNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "doctor not found"})
			return
		}
		h.logger.Error("get doctor failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get doctor"})
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) CreateDoctor(c *gin.Context) {
	var d doctor.Doctor
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.doctors.Create(c.Request.Context(), &d); err != nil {
		h.respondDoctorError(c, err, "create")
		return
	}
	c.JSON(http.StatusCreated, d)
}

func (h *Handler) UpdateDoctor(c *gin.Context) {
	var d doctor.Doctor
	if err := c.ShouldBindJSON(&d); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	d.ID = c.Param("id")
	if err := h.doctors.Update(c.Request.Context(), &d); err != nil {
		h.respondDoctorError(c, err, "update")
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) DeleteDoctor(c *gin.Context) {
	if err := h.doctors.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondDoctorError(c, err, "delete")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "doctor deleted"})
}

func (h *Handler) respondDoctorError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, doctor.ErrInvalidDoctorData):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, doctor.ErrDoctorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "doctor not found"})
	default:
		h.logger.Error("doctor "+op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + op + " doctor"})
	}
}

// --- services ---

// ListServices is the public catalog: active services only.
func (h *Handler) ListServices(c *gin.Context) {
	list, err := h.services.List(c.Request.Context(), medservice.ListFilter{
		Search:     c.Query("search"),
		Department: c.Query("department"),
	})
	if err != nil {
		h.logger.Error("list services failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list services"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListAllServices is the admin catalog, inactive entries included.
func (h *Handler) ListAllServices(c *gin.Context) {
	list, err := h.services.List(c.Request.Context(), medservice.ListFilter{
		Search:          c.Query("search"),
		Department:      c.Query("department"),
		IncludeInactive: true,
	})
	if err != nil {
		h.logger.Error("list services failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list services"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetService(c *gin.Context) {
	m, err := h.services.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, medservice.ErrServiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
			return
		}
		h.logger.Error("get service failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get service"})
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) CreateService(c *gin.Context) {
	var m medservice.MedicalService
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.services.Create(c.Request.Context(), &m); err != nil {
		h.respondServiceError(c, err, "create")
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *Handler) UpdateService(c *gin.Context) {
	var m medservice.MedicalService
	if err := c.ShouldBindJSON(&m); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	m.ID = c.Param("id")
	if err := h.services.Update(c.Request.Context(), &m); err != nil {
		h.respondServiceError(c, err, "update")
		return
	}
	c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteService(c *gin.Context) {
	if err := h.services.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondServiceError(c, err, "delete")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "service deleted"})
}

func (h *Handler) respondServiceError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, medservice.ErrInvalidServiceData):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, medservice.ErrServiceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
	default:
		h.logger.Error("service "+op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + op + " service"})
	}
}

// --- departments ---

// ListDepartments returns the distinct departments across the doctor
// roster and the active service catalog, sorted.
func (h *Handler) ListDepartments(c *gin.Context) {
	ctx := c.Request.Context()
	doctors, err := h.doctors.List(ctx, "", "")
	if err != nil {
		h.logger.Error("list departments failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list departments"})
		return
	}
	services, err := h.services.List(ctx, medservice.ListFilter{})
	if err != nil {
		h.logger.Error("list departments failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list departments"})
		return
	}

	seen := make(map[string]bool)
	departments := make([]string, 0)
	for _, d := range doctors {
		if d.Department != "" && !seen[d.Department] {
			seen[d.Department] = true
			departments = append(departments, d.Department)
		}
	}
	for _, m := range services {
		if m.Department != "" && !seen[m.Department] {
			seen[m.Department] = true
			departments = append(departments, m.Department)
		}
	}
	sort.Strings(departments)
	c.JSON(http.StatusOK, departments)
}

// --- patients ---

func (h *Handler) ListPatients(c *gin.Context) {
	list, err := h.patients.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		h.logger.Error("list patients failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list patients"})
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetPatient(c *gin.Context) {
	p, err := h.patients.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "patient not found"})
			return
		}
		h.logger.Error("get patient failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get patient"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) CreatePatient(c *gin.Context) {
	var p patient.Patient
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.patients.Create(c.Request.Context(), &p); err != nil {
		h.respondPatientError(c, err, "create")
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdatePatient(c *gin.Context) {
	var p patient.Patient
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	p.ID = c.Param("id")
	if err := h.patients.Update(c.Request.Context(), &p); err != nil {
		h.respondPatientError(c, err, "update")
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePatient(c *gin.Context) {
	if err := h.patients.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondPatientError(c, err, "delete")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "patient deleted"})
}

func (h *Handler) respondPatientError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, patient.ErrInvalidPatientData):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, patient.ErrPatientNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "patient not found"})
	default:
		h.logger.Error("patient "+op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + op + " patient"})
	}
}

// --- appointments ---

func (h *Handler) ListSlots(c *gin.Context) {
	c.JSON(http.StatusOK, appointment.TimeSlots)
}

func (h *Handler) BookAppointment(c *gin.Context) {
	var in appointment.BookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ap, err := h.appointments.Book(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, appointment.ErrInvalidBooking):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, appointment.ErrSlotTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "this time slot is no longer available"})
		default:
			h.logger.Error("booking failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to book appointment"})
		}
		return
	}
	c.JSON(http.StatusCreated, ap)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	list, err := h.appointments.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list appointments failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list appointments"})
		return
	}
	filtered := appointment.Filter(list, c.Query("search"), appointment.Status(c.Query("status")))
	c.JSON(http.StatusOK, filtered)
}

func (h *Handler) ConfirmAppointment(c *gin.Context) {
	h.respondTransition(c, h.appointments.Confirm)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	h.respondTransition(c, h.appointments.Cancel)
}

func (h *Handler) CompleteAppointment(c *gin.Context) {
	h.respondTransition(c, h.appointments.Complete)
}

func (h *Handler) ReopenAppointment(c *gin.Context) {
	h.respondTransition(c, h.appointments.Reopen)
}

func (h *Handler) respondTransition(c *gin.Context, fn func(ctx context.Context, id string) (*appointment.Appointment, error)) {
	ap, err := fn(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, appointment.ErrAppointmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "appointment not found"})
		case errors.Is(err, appointment.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.logger.Error("status transition failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update appointment"})
		}
		return
	}
	c.JSON(http.StatusOK, ap)
}

// --- admin extras ---

func (h *Handler) Stats(c *gin.Context) {
	ctx := c.Request.Context()
	counts := gin.H{}
	for name, collection := range map[string]string{
		"doctors":      store.CollectionDoctors,
		"services":     store.CollectionServices,
		"patients":     store.CollectionPatients,
		"appointments": store.CollectionAppointments,
	} {
		n, err := h.store.Count(ctx, collection, nil)
		if err != nil {
			h.logger.Error("stats failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
			return
		}
		counts[name] = n
	}
	pending, err := h.store.Count(ctx, store.CollectionAppointments, map[string]interface{}{
		"status": string(appointment.StatusPending),
	})
	if err != nil {
		h.logger.Error("stats failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}
	counts["pendingAppointments"] = pending
	c.JSON(http.StatusOK, counts)
}

func (h *Handler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	url, err := h.uploads.Upload(c.Request.Context(), header.Filename, file)
	if err != nil {
		h.logger.Error("upload failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "image upload failed"})
		return
	}

	session, _ := auth.SessionFromContext(c)
	_ = h.audit.LogEvent(c.Request.Context(), &audit.AuditEvent{
		EventType: audit.EventUpload,
		UserID:    session.UserID,
		Action:    "UPLOAD_IMAGE",
		Resource:  "uploads",
		Status:    "success",
	})
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *Handler) AuditLogs(c *gin.Context) {
	from, _ := strconv.Atoi(c.DefaultQuery("from", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))
	if size <= 0 || size > 500 {
		size = 50
	}

	filters := make(map[string]interface{})
	if v := c.Query("event_type"); v != "" {
		filters["event_type"] = v
	}
	if v := c.Query("user_id"); v != "" {
		filters["user_id"] = v
	}
	if v := c.Query("resource"); v != "" {
		filters["resource"] = v
	}

	events, err := h.audit.QueryEvents(c.Request.Context(), filters, from, size)
	if err != nil {
		h.logger.Error("audit query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to query audit logs"})
		return
	}
	c.JSON(http.StatusOK, events)
}
