package models

// Form models: raw POST fields exactly as submitted. Validation and
// normalization happen in the validation package, never during binding.

type LoginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

type ClientCreationForm struct {
	FirstName       string `form:"first_name"`
	LastName        string `form:"last_name"`
	Email           string `form:"email"`
	Phone           string `form:"phone"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
	Notes           string `form:"notes"`
}

type ViewingForm struct {
	PropertyID  string `form:"property_id"`
	ClientID    string `form:"client_id"`
	ViewingDate string `form:"viewing_date"`
	ViewingTime string `form:"viewing_time"`
	Notes       string `form:"notes"`
}
