package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "cohorts/internal/errors"
	"cohorts/internal/model"
	"cohorts/internal/service"
)

// CohortHandler handles cohort endpoints.
type CohortHandler struct {
	cohortService service.CohortService
}

// NewCohortHandler creates a new cohort handler.
func NewCohortHandler(cohortService service.CohortService) *CohortHandler {
	return &CohortHandler{cohortService: cohortService}
}

// CreateCohortRequest represents a cohort creation request.
type CreateCohortRequest struct {
	Slug       string        `json:"slug" example:"wd-101"`
	Name       string        `json:"name" example:"Web Dev 101"`
	Program    model.Program `json:"program" example:"Web Dev"`
	Format     model.Format  `json:"format" example:"Full Time"`
	InProgress bool          `json:"inProgress"`
}

// List godoc
// @Summary List cohorts
// @Tags cohorts
// @Produce json
// @Success 200 {array} model.Cohort
// @Failure 500 {object} errors.ErrorResponse
// @Router /api/cohorts [get]
func (h *CohortHandler) List(c echo.Context) error {
	cohorts, err := h.cohortService.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cohorts)
}

// Get godoc
// @Summary Get cohort by id
// @Tags cohorts
// @Produce json
// @Param cohortId path string true "Cohort ID"
// @Success 200 {object} model.Cohort
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/cohorts/{cohortId} [get]
func (h *CohortHandler) Get(c echo.Context) error {
	cohort, err := h.cohortService.Get(c.Request().Context(), c.Param("cohortId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cohort)
}

// Create godoc
// @Summary Create cohort
// @Tags cohorts
// @Accept json
// @Produce json
// @Param request body CreateCohortRequest true "Cohort data"
// @Success 201 {object} model.Cohort
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /api/cohorts [post]
func (h *CohortHandler) Create(c echo.Context) error {
	var req CreateCohortRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.MalformedInput(MsgInvalidBody)
	}

	created, err := h.cohortService.Create(c.Request().Context(), &model.Cohort{
		Slug:       req.Slug,
		Name:       req.Name,
		Program:    req.Program,
		Format:     req.Format,
		InProgress: req.InProgress,
	})
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, "/api/cohorts/"+created.ID)
	return c.JSON(http.StatusCreated, created)
}

// Update godoc
// @Summary Update cohort
// @Description Only the supplied fields change; the result is re-validated.
// @Tags cohorts
// @Accept json
// @Produce json
// @Param cohortId path string true "Cohort ID"
// @Param request body service.CohortPatch true "Fields to change"
// @Success 200 {object} model.Cohort
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /api/cohorts/{cohortId} [put]
func (h *CohortHandler) Update(c echo.Context) error {
	id := c.Param("cohortId")
	if !model.IsValidID(id) {
		return apperrors.InvalidID()
	}

	var patch service.CohortPatch
	if err := c.Bind(&patch); err != nil {
		return apperrors.MalformedInput(MsgInvalidBody)
	}

	updated, err := h.cohortService.Update(c.Request().Context(), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete godoc
// @Summary Delete cohort
// @Description Students referencing the cohort are kept.
// @Tags cohorts
// @Param cohortId path string true "Cohort ID"
// @Success 204
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/cohorts/{cohortId} [delete]
func (h *CohortHandler) Delete(c echo.Context) error {
	if err := h.cohortService.Delete(c.Request().Context(), c.Param("cohortId")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
