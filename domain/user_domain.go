package domain

var (
	MessageSuccessRegister       = "Account created successfully!"
	MessageSuccessLogin          = "Successfully logged in!"
	MessageSuccessLogout         = "Successfully logged out!"
	MessageSuccessGetProfile     = "success get profile"
	MessageSuccessUpdateProfile  = "Profile updated successfully!"
	MessageSuccessUpdatePicture  = "Profile picture updated successfully!"
	MessageSuccessChangePassword = "Password changed successfully!"
	MessageSuccessLoginForm      = "success get login form"

	MessageFailedRegister       = "failed to register"
	MessageFailedLogin          = "Invalid email or password."
	MessageFailedLogout         = "failed to log out"
	MessageFailedGetProfile     = "failed to get profile"
	MessageFailedUpdateProfile  = "failed to update profile"
	MessageFailedUpdatePicture  = "failed to update profile picture"
	MessageFailedChangePassword = "failed to change password"
	MessageFailedOAuthLogin     = "failed to log in with Google"

	ErrUserNotFound          = NewError(KindNotFound, "user not found")
	ErrInvalidCredentials    = NewError(KindUnauthenticated, "invalid email or password")
	ErrEmailAlreadyInUse     = NewError(KindValidationConflict, "email is already in use")
	ErrUsernameAlreadyInUse  = NewError(KindValidationConflict, "username is already in use")
	ErrPasswordMismatch      = NewError(KindValidationConflict, "New passwords do not match.")
	ErrIncorrectPassword     = NewError(KindValidationConflict, "Current password is incorrect.")
	ErrPasswordTooShort      = NewError(KindValidationConflict, "This password is too short. It must contain at least 8 characters.")
	ErrPasswordNumeric       = NewError(KindValidationConflict, "This password is entirely numeric.")
	ErrPasswordTooSimilar    = NewError(KindValidationConflict, "The password is too similar to the username or email.")
	ErrPictureRequired       = NewError(KindValidationConflict, "a profile picture file is required")
	ErrInvalidImageFormat    = NewError(KindValidationConflict, "invalid image format")
	ErrAvatarFetchFailed     = NewError(KindExternalFetchFailure, "failed to fetch avatar")
	ErrOAuthNotConfigured    = NewError(KindNotFound, "google login is not configured")
	ErrOAuthStateMismatch    = NewError(KindPermissionDenied, "oauth state mismatch")
	ErrOAuthNoEmail          = NewError(KindExternalFetchFailure, "identity provider returned no email")
)

type (
	RegisterRequest struct {
		Username        string `json:"username" form:"username" validate:"required,min=3,max=150"`
		Email           string `json:"email" form:"email" validate:"required,email,max=254"`
		Password        string `json:"password" form:"password" validate:"required"`
		ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required"`
		FirstName       string `json:"first_name" form:"first_name" validate:"max=150"`
		LastName        string `json:"last_name" form:"last_name" validate:"max=150"`
	}

	LoginRequest struct {
		Email    string `json:"email" form:"email" validate:"required,email"`
		Password string `json:"password" form:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	LoginFormResponse struct {
		GoogleLoginURL string `json:"google_login_url,omitempty"`
	}

	UpdateProfileRequest struct {
		Username string `json:"username" form:"username" validate:"required,min=3,max=150"`
		Email    string `json:"email" form:"email" validate:"required,email,max=254"`
	}

	ChangePasswordRequest struct {
		CurrentPassword string `json:"current_password" form:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" form:"new_password" validate:"required"`
		ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required"`
	}

	// ProviderProfile is the subset of an identity provider's userinfo payload
	// used to backfill the local account.
	ProviderProfile struct {
		Email      string `json:"email"`
		Picture    string `json:"picture"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
	}

	UserResponse struct {
		ID             string `json:"id"`
		Username       string `json:"username"`
		Email          string `json:"email"`
		FirstName      string `json:"first_name"`
		LastName       string `json:"last_name"`
		ProfilePicture string `json:"profile_picture,omitempty"`
		Role           string `json:"role"`
	}

	ProfileResponse struct {
		User         UserResponse `json:"user"`
		SavedRecipes []Recipe     `json:"saved_recipes"`
	}
)
