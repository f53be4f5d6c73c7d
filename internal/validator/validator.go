// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"igen/internal/models"
)

// ReferenceKinds are the reference collections exposed under /reference/:kind.
var ReferenceKinds = []string{"cost-centres", "transaction-types", "entities", "assets", "contracts"}

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom tags on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("user_role", validateUserRole)
	_ = v.RegisterValidation("txn_direction_filter", validateDirectionFilter)
	_ = v.RegisterValidation("cost_centre_direction", validateCostCentreDirection)
	_ = v.RegisterValidation("entity_type", validateEntityType)
	_ = v.RegisterValidation("reference_kind", validateReferenceKind)
}

func validateUserRole(fl validator.FieldLevel) bool {
	return models.Role(fl.Field().String()).Valid()
}

func validateDirectionFilter(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "credit", "debit", "both":
		return true
	}
	return false
}

func validateCostCentreDirection(fl validator.FieldLevel) bool {
	switch models.Direction(fl.Field().String()) {
	case models.DirectionCredit, models.DirectionDebit, models.DirectionBoth:
		return true
	}
	return false
}

func validateEntityType(fl validator.FieldLevel) bool {
	switch models.EntityType(fl.Field().String()) {
	case models.EntityTypeProperty, models.EntityTypeProject, models.EntityTypeInternal:
		return true
	}
	return false
}

func validateReferenceKind(fl validator.FieldLevel) bool {
	kind := fl.Field().String()
	for _, k := range ReferenceKinds {
		if k == kind {
			return true
		}
	}
	return false
}
