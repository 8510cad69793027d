package models

type RegisterRequest struct {
	Identifier   string `json:"identifier" validate:"required,min=3,max=100"`
	Password     string `json:"password" validate:"required,min=8,max=128"`
	Name         string `json:"name" validate:"max=100"`
	CaptchaToken string `json:"captcha_token"`
}

type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type AdminStats struct {
	TotalUsers      int64 `json:"total_users"`
	TotalStudents   int64 `json:"total_students"`
	TotalWorksheets int64 `json:"total_worksheets"`
	TotalSubjects   int64 `json:"total_subjects"`
	TotalPackages   int64 `json:"total_packages"`
	TotalCoupons    int64 `json:"total_coupons"`
}

type BlockUserRequest struct {
	IsBlocked bool `json:"is_blocked"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}
