package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/OldStager01/sentinel-console/internal/console"
	"github.com/OldStager01/sentinel-console/pkg/models"
	"github.com/OldStager01/sentinel-console/pkg/validation"
)

type FormHandler struct {
	consoles ConsoleManager
}

func NewFormHandler(consoles ConsoleManager) *FormHandler {
	return &FormHandler{consoles: consoles}
}

// FormRequest updates the diagnostic form. Omitted fields keep their value.
// The numeric text fields are stored as typed.
type FormRequest struct {
	MachineType     *string  `json:"machine_type" example:"L"`
	RotationalSpeed *string  `json:"rotational_speed" example:"1550"`
	Torque          *string  `json:"torque" example:"42.8"`
	ProcTempC       *string  `json:"proc_temp_c" example:"35"`
	AirTempC        *float64 `json:"air_temp_c" example:"25"`
	ToolWear        *float64 `json:"tool_wear" example:"108"`
}

// apply merges req into form after validating each provided field.
func (req FormRequest) apply(form models.FormState) (models.FormState, error) {
	if req.MachineType != nil {
		mt, err := validation.ValidateMachineType(*req.MachineType)
		if err != nil {
			return form, err
		}
		form.MachineType = mt
	}

	texts := []struct {
		name  string
		value *string
		dst   *string
	}{
		{"rotational_speed", req.RotationalSpeed, &form.RotationalSpeed},
		{"torque", req.Torque, &form.Torque},
		{"proc_temp_c", req.ProcTempC, &form.ProcTempC},
	}
	for _, t := range texts {
		if t.value == nil {
			continue
		}
		if err := validation.ValidateFormField(t.name, *t.value); err != nil {
			return form, err
		}
		*t.dst = *t.value
	}

	if req.AirTempC != nil {
		form.AirTempC = *req.AirTempC
	}
	if req.ToolWear != nil {
		form.ToolWear = *req.ToolWear
	}
	return form, nil
}

// formRequestFromPost reads an HTML form post. Slider values that do not
// parse are ignored.
func formRequestFromPost(c *gin.Context) FormRequest {
	var req FormRequest
	for key, dst := range map[string]**string{
		"machine_type":     &req.MachineType,
		"rotational_speed": &req.RotationalSpeed,
		"torque":           &req.Torque,
		"proc_temp_c":      &req.ProcTempC,
	} {
		if v, ok := c.GetPostForm(key); ok {
			value := v
			*dst = &value
		}
	}
	for key, dst := range map[string]**float64{
		"air_temp_c": &req.AirTempC,
		"tool_wear":  &req.ToolWear,
	} {
		if v, ok := c.GetPostForm(key); ok {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = &f
			}
		}
	}
	return req
}

func updateForm(con *console.Console, req FormRequest) (models.FormState, error) {
	form, err := req.apply(con.Form())
	if err != nil {
		return form, err
	}
	if err := con.UpdateForm(form); err != nil {
		return form, err
	}
	return con.Form(), nil
}

// Get godoc
// @Summary Get form
// @Description Current diagnostic form of the session
// @Tags Form
// @Produce json
// @Success 200 {object} models.FormState
// @Router /api/v1/form [get]
func (h *FormHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, consoleFor(c, h.consoles).Form())
}

// Update godoc
// @Summary Update form
// @Description Update the diagnostic form. Omitted fields are kept.
// @Tags Form
// @Accept json
// @Produce json
// @Param request body FormRequest true "Form fields"
// @Success 200 {object} models.FormState
// @Failure 400 {object} ErrorResponse "Invalid field"
// @Router /api/v1/form [put]
func (h *FormHandler) Update(c *gin.Context) {
	var req FormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	form, err := updateForm(consoleFor(c, h.consoles), req)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, form)
}
