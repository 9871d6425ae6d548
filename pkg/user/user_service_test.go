package user

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"recipe-finder/domain"
	"recipe-finder/internal/testutil"
	"recipe-finder/internal/utils"
	"recipe-finder/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (UserService, UserRepository, *testutil.FakeS3) {
	t.Helper()
	utils.SetConfig("JWT_SECRET", "user-test-secret")

	repo := NewUserRepository(testutil.NewDB(t))
	s3 := testutil.NewFakeS3()
	return NewUserService(repo, jwt.NewJWTService(), s3), repo, s3
}

func register(t *testing.T, svc UserService, username, email string) string {
	t.Helper()
	user, err := svc.CreateUser(context.Background(), domain.RegisterRequest{
		Username:        username,
		Email:           email,
		Password:        "Tomat0-Soup!",
		ConfirmPassword: "Tomat0-Soup!",
	}, false)
	require.NoError(t, err)
	return user.ID.String()
}

func fileHeader(t *testing.T, field, name string, data []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+name+`"`)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File[field][0]
}

func TestResolveRole(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	admin, err := svc.ResolveRole(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.RoleName)

	user, err := svc.ResolveRole(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, "user", user.RoleName)

	again, err := svc.ResolveRole(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID, "role rows are reused")
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, domain.RegisterRequest{
		Username:        "marco",
		Email:           "marco@example.com",
		Password:        "Tomat0-Soup!",
		ConfirmPassword: "Tomat0-Soup!",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, domain.RoleUser, res.Role)

	login, err := svc.Login(ctx, domain.LoginRequest{Email: "MARCO@example.com", Password: "Tomat0-Soup!"})
	require.NoError(t, err)
	assert.NotEmpty(t, login.Token)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "marco@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "Tomat0-Soup!"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestCreateUser_Rejections(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	register(t, svc, "marco", "marco@example.com")

	tests := []struct {
		name string
		req  domain.RegisterRequest
		err  error
	}{
		{"mismatch", domain.RegisterRequest{Username: "anna", Email: "anna@example.com", Password: "Tomat0-Soup!", ConfirmPassword: "other"}, domain.ErrPasswordMismatch},
		{"too short", domain.RegisterRequest{Username: "anna", Email: "anna@example.com", Password: "short", ConfirmPassword: "short"}, domain.ErrPasswordTooShort},
		{"numeric", domain.RegisterRequest{Username: "anna", Email: "anna@example.com", Password: "12345678", ConfirmPassword: "12345678"}, domain.ErrPasswordNumeric},
		{"similar", domain.RegisterRequest{Username: "annabella", Email: "anna@example.com", Password: "annabella1", ConfirmPassword: "annabella1"}, domain.ErrPasswordTooSimilar},
		{"username taken", domain.RegisterRequest{Username: "marco", Email: "other@example.com", Password: "Tomat0-Soup!", ConfirmPassword: "Tomat0-Soup!"}, domain.ErrUsernameAlreadyInUse},
		{"email taken", domain.RegisterRequest{Username: "anna", Email: "marco@example.com", Password: "Tomat0-Soup!", ConfirmPassword: "Tomat0-Soup!"}, domain.ErrEmailAlreadyInUse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateUser(ctx, tt.req, false)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	id := register(t, svc, "marco", "marco@example.com")
	register(t, svc, "anna", "anna@example.com")

	res, err := svc.UpdateProfile(ctx, id, domain.UpdateProfileRequest{Username: "marco", Email: "marco@new.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "marco@new.example.com", res.Email)

	_, err = svc.UpdateProfile(ctx, id, domain.UpdateProfileRequest{Username: "anna", Email: "marco@new.example.com"})
	assert.ErrorIs(t, err, domain.ErrUsernameAlreadyInUse)

	_, err = svc.UpdateProfile(ctx, id, domain.UpdateProfileRequest{Username: "marco", Email: "anna@example.com"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyInUse)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	id := register(t, svc, "marco", "marco@example.com")

	err := svc.ChangePassword(ctx, id, domain.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "Basil-Pesto9", ConfirmPassword: "Basil-Pesto9"})
	assert.ErrorIs(t, err, domain.ErrIncorrectPassword)

	err = svc.ChangePassword(ctx, id, domain.ChangePasswordRequest{CurrentPassword: "Tomat0-Soup!", NewPassword: "Basil-Pesto9", ConfirmPassword: "Basil-Pesto8"})
	assert.ErrorIs(t, err, domain.ErrPasswordMismatch)

	err = svc.ChangePassword(ctx, id, domain.ChangePasswordRequest{CurrentPassword: "Tomat0-Soup!", NewPassword: "Basil-Pesto9", ConfirmPassword: "Basil-Pesto9"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "marco@example.com", Password: "Basil-Pesto9"})
	assert.NoError(t, err)
}

func TestUpdateProfilePicture(t *testing.T) {
	svc, _, s3 := newTestService(t)
	ctx := context.Background()
	id := register(t, svc, "marco", "marco@example.com")

	_, err := svc.UpdateProfilePicture(ctx, id, nil)
	assert.ErrorIs(t, err, domain.ErrPictureRequired)

	_, err = svc.UpdateProfilePicture(ctx, id, fileHeader(t, "profile_picture", "notes.txt", []byte("plain text")))
	assert.ErrorIs(t, err, domain.ErrInvalidImageFormat)

	res, err := svc.UpdateProfilePicture(ctx, id, fileHeader(t, "profile_picture", "me.png", testutil.PNG))
	require.NoError(t, err)
	assert.Contains(t, res.ProfilePicture, "profile-pictures/profile-"+id+".png")
	assert.True(t, s3.Has("profile-pictures/profile-"+id+".png"))

	again, err := svc.UpdateProfilePicture(ctx, id, fileHeader(t, "profile_picture", "me2.png", testutil.PNG))
	require.NoError(t, err)
	assert.Equal(t, res.ProfilePicture, again.ProfilePicture, "existing object is overwritten")
	assert.True(t, s3.Has("profile-pictures/profile-"+id+".png"))

	jpg, err := svc.UpdateProfilePicture(ctx, id, fileHeader(t, "profile_picture", "me.png", testutil.JPEG))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(jpg.ProfilePicture, "profile-pictures/profile-"+id+".jpg"), jpg.ProfilePicture)
	assert.True(t, s3.Has("profile-pictures/profile-"+id+".jpg"))
	assert.False(t, s3.Has("profile-pictures/profile-"+id+".png"), "old format is removed")

	me, err := svc.Me(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, jpg.ProfilePicture, me.ProfilePicture)
}

func TestSyncAvatar(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/avatar.png":
			_, _ = w.Write(testutil.PNG)
		case "/slow.png":
			time.Sleep(300 * time.Millisecond)
			_, _ = w.Write(testutil.PNG)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	utils.SetConfig("AVATAR_FETCH_TIMEOUT", "100ms")
	defer utils.SetConfig("AVATAR_FETCH_TIMEOUT", "")

	t.Run("stores picture and fills empty names", func(t *testing.T) {
		svc, _, s3 := newTestService(t)
		ctx := context.Background()
		id := register(t, svc, "marco", "marco@example.com")

		err := svc.SyncAvatar(ctx, id, domain.ProviderProfile{
			Picture:    server.URL + "/avatar.png",
			GivenName:  "Marco",
			FamilyName: "Polo",
		})
		require.NoError(t, err)

		me, err := svc.Me(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Marco", me.FirstName)
		assert.Equal(t, "Polo", me.LastName)
		assert.True(t, s3.Has("avatars/google_avatar_"+id+".png"))
		assert.Equal(t, s3.GetPublicLinkKey("avatars/google_avatar_"+id+".png"), me.ProfilePicture)
	})

	t.Run("keeps existing names", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		ctx := context.Background()
		user, err := svc.CreateUser(ctx, domain.RegisterRequest{
			Username: "anna", Email: "anna@example.com", FirstName: "Anna",
			Password: "Tomat0-Soup!", ConfirmPassword: "Tomat0-Soup!",
		}, false)
		require.NoError(t, err)

		require.NoError(t, svc.SyncAvatar(ctx, user.ID.String(), domain.ProviderProfile{GivenName: "Other", FamilyName: "Name"}))

		me, err := svc.Me(ctx, user.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "Anna", me.FirstName)
		assert.Empty(t, me.LastName)
	})

	t.Run("failed download is swallowed", func(t *testing.T) {
		svc, _, s3 := newTestService(t)
		ctx := context.Background()
		id := register(t, svc, "marco", "marco@example.com")

		for _, path := range []string{"/missing.png", "/slow.png"} {
			require.NoError(t, svc.SyncAvatar(ctx, id, domain.ProviderProfile{Picture: server.URL + path}))
		}

		me, err := svc.Me(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, me.ProfilePicture)
		assert.Empty(t, s3.Objects)
	})
}

func TestLoginWithProvider(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	res, err := svc.LoginWithProvider(ctx, domain.ProviderProfile{Email: "chef@example.com", GivenName: "Chef"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, domain.RoleUser, res.Role)

	user, err := repo.GetUserByEmail(ctx, "chef@example.com")
	require.NoError(t, err)
	assert.Equal(t, "chef", user.Username)
	assert.Equal(t, "Chef", user.FirstName)

	_, err = svc.LoginWithProvider(ctx, domain.ProviderProfile{Email: "chef@example.com"})
	require.NoError(t, err, "second login reuses the account")

	_, err = svc.Login(ctx, domain.LoginRequest{Email: "chef@example.com", Password: "anything-at-all"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "provider accounts have no password")

	_, err = svc.LoginWithProvider(ctx, domain.ProviderProfile{})
	assert.ErrorIs(t, err, domain.ErrOAuthNoEmail)
}
