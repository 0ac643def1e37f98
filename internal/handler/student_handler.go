package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"eduphysics/internal/errors"
	"eduphysics/internal/repository"
	"eduphysics/internal/service"
)

// StudentHandler handles student endpoints.
type StudentHandler struct {
	studentService service.StudentService
}

// NewStudentHandler creates a new student handler.
func NewStudentHandler(studentService service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// List godoc
// @Summary List students with optional filters
// @Tags students
// @Produce json
// @Param gender query string false "Exact gender match"
// @Param class query string false "Class tag membership"
// @Param month query string false "registerDate prefix, e.g. 2024-03"
// @Param search query string false "Substring across name, email and mobile"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /students [get]
func (h *StudentHandler) List(c echo.Context) error {
	filter := repository.ListFilter{
		Gender: c.QueryParam("gender"),
		Class:  c.QueryParam("class"),
		Month:  c.QueryParam("month"),
		Search: c.QueryParam("search"),
	}

	students, err := h.studentService.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    students,
		"count":   len(students),
	})
}

// Get godoc
// @Summary Get a student by ID
// @Tags students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c echo.Context) error {
	student, err := h.studentService.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    student,
	})
}

// Create godoc
// @Summary Create a walk-in student (admin)
// @Tags students
// @Accept json
// @Produce json
// @Param request body map[string]interface{} true "Student fields"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /students [post]
func (h *StudentHandler) Create(c echo.Context) error {
	var input map[string]interface{}
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errors.ErrorResponse{Error: "invalid request body"})
	}

	student, err := h.studentService.Create(c.Request().Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Student registered successfully",
		"data":    student,
	})
}

// Register godoc
// @Summary Public self-registration with a payment receipt
// @Tags students
// @Accept json
// @Produce json
// @Param request body map[string]interface{} true "Student fields plus paymentReceipt"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /students/register [post]
func (h *StudentHandler) Register(c echo.Context) error {
	var input map[string]interface{}
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errors.ErrorResponse{Error: "invalid request body"})
	}

	student, err := h.studentService.Register(c.Request().Context(), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Registration submitted successfully! We will verify your payment and confirm enrollment.",
		"data":    student,
	})
}

// Update godoc
// @Summary Update an existing student (admin)
// @Tags students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param request body map[string]interface{} true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c echo.Context) error {
	var input map[string]interface{}
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, errors.ErrorResponse{Error: "invalid request body"})
	}

	student, err := h.studentService.Update(c.Request().Context(), c.Param("id"), input)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Student updated successfully",
		"data":    student,
	})
}

// VerifyRequest carries the verification decision.
type VerifyRequest struct {
	Status string `json:"status" validate:"required"`
}

// Verify godoc
// @Summary Verify or reject an online registration (admin)
// @Tags students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param request body VerifyRequest true "verified or rejected"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /students/{id}/verify [put]
func (h *StudentHandler) Verify(c echo.Context) error {
	var req VerifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.ErrorResponse{Error: "invalid request body"})
	}

	student, err := h.studentService.Verify(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Student " + req.Status + " successfully",
		"data":    student,
	})
}

// Delete godoc
// @Summary Delete a student (admin)
// @Tags students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c echo.Context) error {
	if err := h.studentService.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Student deleted successfully",
	})
}

// respondError maps a domain error to its HTTP status and envelope.
func respondError(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		c.Logger().Error(err)
	}
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}
