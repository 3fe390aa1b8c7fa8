package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hanifahuq/MelloBackend/middleware"
)

func TestRegisterInputValidation(t *testing.T) {
	valid := RegisterInput{
		Username:        "hanifah",
		Name:            "Hanifah",
		Password:        "mello1234",
		ConfirmPassword: "mello1234",
	}
	assert.NoError(t, middleware.ValidateStruct(valid))

	mismatched := valid
	mismatched.ConfirmPassword = "something-else"
	assert.Error(t, middleware.ValidateStruct(mismatched))

	short := valid
	short.Password = "abc"
	short.ConfirmPassword = "abc"
	assert.Error(t, middleware.ValidateStruct(short))

	noUsername := valid
	noUsername.Username = ""
	assert.Error(t, middleware.ValidateStruct(noUsername))
}

func TestCreateHabitInputValidation(t *testing.T) {
	valid := CreateHabitInput{
		Title:     "Morning run",
		StartDate: "2024-01-01",
		EndDate:   "2024-01-29",
		Frequency: "Weekly",
		Weekday:   "Monday",
	}
	assert.NoError(t, middleware.ValidateStruct(valid))

	noTitle := valid
	noTitle.Title = ""
	assert.Error(t, middleware.ValidateStruct(noTitle))

	noFrequency := valid
	noFrequency.Frequency = ""
	assert.Error(t, middleware.ValidateStruct(noFrequency))
}
