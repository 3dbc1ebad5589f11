package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "cohorts/internal/errors"
	"cohorts/internal/model"
	"cohorts/internal/service"
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
// @Summary List students
// @Tags students
// @Produce json
// @Success 200 {array} model.StudentView
// @Router /api/students [get]
func (h *StudentHandler) List(c echo.Context) error {
	students, err := h.studentService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, students)
}

// ListByCohort godoc
// @Summary List students of a cohort
// @Tags students
// @Produce json
// @Param cohortId path string true "Cohort ID"
// @Success 200 {array} model.StudentView
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/students/cohort/{cohortId} [get]
func (h *StudentHandler) ListByCohort(c echo.Context) error {
	students, err := h.studentService.ListByCohort(c.Request().Context(), c.Param("cohortId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, students)
}

// Get godoc
// @Summary Get student by id
// @Tags students
// @Produce json
// @Param studentId path string true "Student ID"
// @Success 200 {object} model.StudentView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/students/{studentId} [get]
func (h *StudentHandler) Get(c echo.Context) error {
	student, err := h.studentService.Get(c.Request().Context(), c.Param("studentId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, student)
}

// Create godoc
// @Summary Create student
// @Tags students
// @Accept json
// @Produce json
// @Param request body service.StudentInput true "Student data"
// @Success 201 {object} model.StudentView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /api/students [post]
func (h *StudentHandler) Create(c echo.Context) error {
	var input service.StudentInput
	if err := c.Bind(&input); err != nil {
		return apperrors.MalformedInput(MsgInvalidBody)
	}

	created, err := h.studentService.Create(c.Request().Context(), input)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, "/api/students/"+created.ID)
	return c.JSON(http.StatusCreated, created)
}

// Update godoc
// @Summary Update student
// @Tags students
// @Accept json
// @Produce json
// @Param studentId path string true "Student ID"
// @Param request body service.StudentPatch true "Fields to change"
// @Success 200 {object} model.StudentView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /api/students/{studentId} [put]
func (h *StudentHandler) Update(c echo.Context) error {
	id := c.Param("studentId")
	if !model.IsValidID(id) {
		return apperrors.InvalidID()
	}

	var patch service.StudentPatch
	if err := c.Bind(&patch); err != nil {
		return apperrors.MalformedInput(MsgInvalidBody)
	}

	updated, err := h.studentService.Update(c.Request().Context(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete godoc
// @Summary Delete student
// @Tags students
// @Param studentId path string true "Student ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/students/{studentId} [delete]
func (h *StudentHandler) Delete(c echo.Context) error {
	if err := h.studentService.Delete(c.Request().Context(), c.Param("studentId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
