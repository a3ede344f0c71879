package domain

// SignupRequest is the typed form body for POST /signupSubmit. Fields are
// validated by gin's binding before any of them is used.
type SignupRequest struct {
	Name     string `form:"name" binding:"required,max=20"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,min=6,max=20"`
}

// LoginRequest is the typed form body for POST /loginSubmit.
type LoginRequest struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}
