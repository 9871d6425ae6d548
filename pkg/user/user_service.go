package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"recipe-finder/domain"
	"recipe-finder/entities"
	"recipe-finder/internal/utils"
	"recipe-finder/internal/utils/storage"
	"recipe-finder/pkg/jwt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8

	defaultAvatarTimeout = 5 * time.Second
	avatarDir            = "avatars"
	profilePictureDir    = "profile-pictures"
)

type (
	UserService interface {
		ResolveRole(ctx context.Context, elevate bool) (*entities.Role, error)
		CreateUser(ctx context.Context, req domain.RegisterRequest, elevate bool) (*entities.User, error)
		Register(ctx context.Context, req domain.RegisterRequest) (domain.LoginResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		LoginWithProvider(ctx context.Context, profile domain.ProviderProfile) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (domain.UserResponse, error)
		UpdateProfilePicture(ctx context.Context, userID string, file *multipart.FileHeader) (domain.UserResponse, error)
		ChangePassword(ctx context.Context, userID string, req domain.ChangePasswordRequest) error
		SyncAvatar(ctx context.Context, userID string, profile domain.ProviderProfile) error
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		s3             storage.AwsS3
		httpClient     *http.Client
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, s3 storage.AwsS3) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		s3:             s3,
		httpClient:     &http.Client{Timeout: avatarTimeout()},
	}
}

// avatarTimeout accepts a Go duration ("750ms") or a bare number of seconds.
func avatarTimeout() time.Duration {
	raw := utils.GetConfig("AVATAR_FETCH_TIMEOUT")
	if raw == "" {
		return defaultAvatarTimeout
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultAvatarTimeout
}

// ResolveRole returns the "admin" role when elevate is set and "user"
// otherwise, creating the row on first use.
func (s *userService) ResolveRole(ctx context.Context, elevate bool) (*entities.Role, error) {
	name := domain.RoleUser
	if elevate {
		name = domain.RoleAdmin
	}
	return s.userRepository.GetOrCreateRole(ctx, name)
}

func (s *userService) CreateUser(ctx context.Context, req domain.RegisterRequest, elevate bool) (*entities.User, error) {
	if req.Password != req.ConfirmPassword {
		return nil, domain.ErrPasswordMismatch
	}
	if err := checkPassword(req.Password, req.Username, req.Email); err != nil {
		return nil, err
	}
	if err := s.checkIdentity(ctx, req.Username, req.Email, ""); err != nil {
		return nil, err
	}

	role, err := s.ResolveRole(ctx, elevate)
	if err != nil {
		return nil, err
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashed,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RoleID:    role.ID,
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

// Register creates a regular account and signs the new user in.
func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.LoginResponse, error) {
	user, err := s.CreateUser(ctx, req, false)
	if err != nil {
		return domain.LoginResponse{}, err
	}
	return s.issueToken(user), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if isNotFound(err) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}

	if user.Password == "" || !checkPasswordHash(req.Password, user.Password) {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}
	return s.issueToken(user), nil
}

// LoginWithProvider finds or creates the account for a verified provider
// email, backfills it from the profile and signs the user in.
func (s *userService) LoginWithProvider(ctx context.Context, profile domain.ProviderProfile) (domain.LoginResponse, error) {
	if profile.Email == "" {
		return domain.LoginResponse{}, domain.ErrOAuthNoEmail
	}

	user, err := s.userRepository.GetUserByEmail(ctx, profile.Email)
	if err != nil && !isNotFound(err) {
		return domain.LoginResponse{}, err
	}
	if user == nil {
		if user, err = s.createProviderUser(ctx, profile.Email); err != nil {
			return domain.LoginResponse{}, err
		}
	}

	if err := s.SyncAvatar(ctx, user.ID.String(), profile); err != nil {
		log.Warnf("profile sync for user %s: %v", user.ID, err)
	}
	return s.issueToken(user), nil
}

func (s *userService) createProviderUser(ctx context.Context, email string) (*entities.User, error) {
	role, err := s.ResolveRole(ctx, false)
	if err != nil {
		return nil, err
	}

	username, err := s.availableUsername(ctx, email)
	if err != nil {
		return nil, err
	}

	// Provider accounts have no usable password until one is set.
	user := &entities.User{
		Username: username,
		Email:    email,
		RoleID:   role.ID,
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	user.Role = role
	return user, nil
}

func (s *userService) availableUsername(ctx context.Context, email string) (string, error) {
	base := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	if len(base) < 3 {
		base = "user-" + base
	}

	candidate := base
	for i := 0; i < 5; i++ {
		taken, err := s.userRepository.IsUsernameTaken(ctx, candidate, "")
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%s", base, uuid.NewString()[:6])
	}
	return "", domain.ErrUsernameAlreadyInUse
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req domain.UpdateProfileRequest) (domain.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}

	if err := s.checkIdentity(ctx, req.Username, req.Email, userID); err != nil {
		return domain.UserResponse{}, err
	}

	user.Username = req.Username
	user.Email = req.Email
	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return domain.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func (s *userService) UpdateProfilePicture(ctx context.Context, userID string, file *multipart.FileHeader) (domain.UserResponse, error) {
	if file == nil {
		return domain.UserResponse{}, domain.ErrPictureRequired
	}

	user, err := s.getUser(ctx, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}

	// The key carries the sniffed extension, so a new format lands on a new key.
	objectKey, err := s.s3.UploadFile(ctx, "profile-"+user.ID.String(), file, profilePictureDir, storage.AllowImage...)
	if err != nil {
		return domain.UserResponse{}, imageError(err)
	}

	previous := s.s3.GetObjectKeyFromLink(user.ProfilePicture)
	user.ProfilePicture = s.s3.GetPublicLinkKey(objectKey)
	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return domain.UserResponse{}, err
	}

	if previous != "" && previous != objectKey {
		if err := s.s3.DeleteFile(ctx, previous); err != nil {
			log.Warnf("removing old picture %s: %v", previous, err)
		}
	}
	return toUserResponse(user), nil
}

func (s *userService) ChangePassword(ctx context.Context, userID string, req domain.ChangePasswordRequest) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if user.Password == "" || !checkPasswordHash(req.CurrentPassword, user.Password) {
		return domain.ErrIncorrectPassword
	}
	if req.NewPassword != req.ConfirmPassword {
		return domain.ErrPasswordMismatch
	}
	if err := checkPassword(req.NewPassword, user.Username, user.Email); err != nil {
		return err
	}

	hashed, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	return s.userRepository.UpdateUser(ctx, user)
}

// SyncAvatar copies the provider picture into storage when the user has none
// yet, and fills the name only when both name fields are empty. A failed
// download is logged and never fails the caller.
func (s *userService) SyncAvatar(ctx context.Context, userID string, profile domain.ProviderProfile) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	changed := false
	if profile.Picture != "" && user.ProfilePicture == "" {
		link, err := s.storeAvatar(ctx, user.ID, profile.Picture)
		if err != nil {
			log.Warnf("avatar sync for user %s: %v", user.ID, err)
		} else {
			user.ProfilePicture = link
			changed = true
		}
	}

	if user.FirstName == "" && user.LastName == "" && (profile.GivenName != "" || profile.FamilyName != "") {
		user.FirstName = profile.GivenName
		user.LastName = profile.FamilyName
		changed = true
	}

	if !changed {
		return nil
	}
	return s.userRepository.UpdateUser(ctx, user)
}

func (s *userService) storeAvatar(ctx context.Context, userID uuid.UUID, pictureURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pictureURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAvatarFetchFailed, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAvatarFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", domain.ErrAvatarFetchFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, storage.MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrAvatarFetchFailed, err)
	}

	objectKey, err := s.s3.UploadBytes(ctx, "google_avatar_"+userID.String(), data, avatarDir, storage.AllowImage...)
	if err != nil {
		return "", imageError(err)
	}
	return s.s3.GetPublicLinkKey(objectKey), nil
}

func (s *userService) getUser(ctx context.Context, userID string) (*entities.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, domain.ErrUserNotFound
	}

	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) checkIdentity(ctx context.Context, username, email, excludeID string) error {
	taken, err := s.userRepository.IsUsernameTaken(ctx, username, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrUsernameAlreadyInUse
	}

	taken, err = s.userRepository.IsEmailTaken(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrEmailAlreadyInUse
	}
	return nil
}

func (s *userService) issueToken(user *entities.User) domain.LoginResponse {
	role := domain.RoleUser
	if user.Role != nil {
		role = user.Role.RoleName
	}
	return domain.LoginResponse{
		Token: s.jwtService.GenerateTokenUser(user.ID.String(), role),
		Role:  role,
	}
}

func toUserResponse(user *entities.User) domain.UserResponse {
	res := domain.UserResponse{
		ID:             user.ID.String(),
		Username:       user.Username,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		ProfilePicture: user.ProfilePicture,
	}
	if user.Role != nil {
		res.Role = user.Role.RoleName
	}
	return res
}

func imageError(err error) error {
	if errors.Is(err, storage.ErrFileTypeNotAllowed) || errors.Is(err, storage.ErrEmptyFile) || errors.Is(err, storage.ErrFileTooLarge) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidImageFormat, err)
	}
	return err
}

// checkPassword applies the account password rules.
func checkPassword(password, username, email string) error {
	if len(password) < minPasswordLength {
		return domain.ErrPasswordTooShort
	}

	numeric := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			numeric = false
			break
		}
	}
	if numeric {
		return domain.ErrPasswordNumeric
	}

	lower := strings.ToLower(password)
	local := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	for _, attr := range []string{strings.ToLower(username), local, strings.ToLower(email)} {
		if len(attr) >= 3 && (lower == attr || strings.Contains(lower, attr) || strings.Contains(attr, lower)) {
			return domain.ErrPasswordTooSimilar
		}
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func checkPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
