package publisher

import (
	"context"
	"testing"

	"recipe-finder/domain"
	"recipe-finder/entities"
	"recipe-finder/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (PublisherService, PublisherRepository, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	repo := NewPublisherRepository(db)
	return NewPublisherService(repo), repo, db
}

func addRecipe(t *testing.T, db *gorm.DB, publisherID string) {
	t.Helper()
	require.NoError(t, db.Create(&entities.Recipe{
		Title:       "Tomato Soup",
		PublisherID: uuid.MustParse(publisherID),
	}).Error)
}

func TestCreatePublisher(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreatePublisher(ctx, domain.PublisherRequest{PublisherName: " Kitchen Daily ", PublisherURL: "https://kitchen.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Kitchen Daily", created.PublisherName)

	_, err = svc.CreatePublisher(ctx, domain.PublisherRequest{PublisherName: "Kitchen Daily"})
	assert.ErrorIs(t, err, domain.ErrPublisherNameTaken)

	_, err = svc.CreatePublisher(ctx, domain.PublisherRequest{PublisherName: "kitchen daily"})
	assert.NoError(t, err, "names are compared case-sensitively")

	_, err = svc.CreatePublisher(ctx, domain.PublisherRequest{PublisherName: "   "})
	assert.ErrorIs(t, err, domain.ErrPublisherRequired)
}

func TestUpdatePublisher(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.CreatePublisher(ctx, domain.PublisherRequest{PublisherName: "Alpha"})
	require.NoError(t, err)
	_, err = svc.CreatePublisher(ctx, domain.PublisherRequest{PublisherName: "Beta"})
	require.NoError(t, err)

	updated, err := svc.UpdatePublisher(ctx, a.ID, domain.PublisherRequest{PublisherName: "Alpha", PublisherURL: "https://alpha.example.com"})
	require.NoError(t, err, "keeping the same name is allowed")
	assert.Equal(t, "https://alpha.example.com", updated.PublisherURL)

	_, err = svc.UpdatePublisher(ctx, a.ID, domain.PublisherRequest{PublisherName: "Beta"})
	assert.ErrorIs(t, err, domain.ErrPublisherNameTaken)

	_, err = svc.UpdatePublisher(ctx, uuid.NewString(), domain.PublisherRequest{PublisherName: "Gamma"})
	assert.ErrorIs(t, err, domain.ErrPublisherNotFound)

	_, err = svc.UpdatePublisher(ctx, "not-a-uuid", domain.PublisherRequest{PublisherName: "Gamma"})
	assert.ErrorIs(t, err, domain.ErrPublisherNotFound)
}

func TestDeletePublisher_InUse(t *testing.T) {
	svc, _, db := newTestService(t)
	ctx := context.Background()

	used, err := svc.CreatePublisher(ctx, domain.PublisherRequest{PublisherName: "Used"})
	require.NoError(t, err)
	unused, err := svc.CreatePublisher(ctx, domain.PublisherRequest{PublisherName: "Unused"})
	require.NoError(t, err)
	addRecipe(t, db, used.ID)

	err = svc.DeletePublisher(ctx, used.ID)
	assert.ErrorIs(t, err, domain.ErrPublisherInUse)
	assert.Equal(t, "cannot delete publisher because it has associated recipes", err.Error())

	require.NoError(t, svc.DeletePublisher(ctx, unused.ID))

	publishers, err := svc.GetPublishers(ctx)
	require.NoError(t, err)
	require.Len(t, publishers, 1)
	assert.Equal(t, "Used", publishers[0].PublisherName)
	assert.Equal(t, int64(1), publishers[0].RecipeCount)
}

func TestApplyAction(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	msg, err := svc.ApplyAction(ctx, domain.PublisherActionRequest{Action: domain.PublisherActionAdd, PublisherName: "Alpha"})
	require.NoError(t, err)
	assert.Equal(t, domain.MessageSuccessCreatePublisher, msg)

	publishers, err := svc.GetPublishers(ctx)
	require.NoError(t, err)
	require.Len(t, publishers, 1)

	msg, err = svc.ApplyAction(ctx, domain.PublisherActionRequest{Action: domain.PublisherActionEdit, PublisherID: publishers[0].ID, PublisherName: "Alpha Two"})
	require.NoError(t, err)
	assert.Equal(t, domain.MessageSuccessUpdatePublisher, msg)

	msg, err = svc.ApplyAction(ctx, domain.PublisherActionRequest{Action: domain.PublisherActionDelete, PublisherID: publishers[0].ID})
	require.NoError(t, err)
	assert.Equal(t, domain.MessageSuccessDeletePublisher, msg)

	_, err = svc.ApplyAction(ctx, domain.PublisherActionRequest{Action: "rename"})
	assert.ErrorIs(t, err, domain.ErrUnknownAction)
}

func TestGetOrCreatePublisher(t *testing.T) {
	_, repo, _ := newTestService(t)
	ctx := context.Background()

	first, err := repo.GetOrCreatePublisher(ctx, "Home Cook", "https://home.example.com")
	require.NoError(t, err)

	second, err := repo.GetOrCreatePublisher(ctx, "Home Cook", "https://ignored.example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "https://home.example.com", second.PublisherURL)
}

// staleNameRepository misses every name lookup, as when another writer
// inserts the same name between the check and the write.
type staleNameRepository struct {
	PublisherRepository
}

func (staleNameRepository) GetPublisherByName(context.Context, string) (*entities.Publisher, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestPublisherName_ConcurrentWriterConflict(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewPublisherService(staleNameRepository{NewPublisherRepository(db)})
	ctx := context.Background()

	_, err := svc.CreatePublisher(ctx, domain.PublisherRequest{PublisherName: "Alpha"})
	require.NoError(t, err)
	beta, err := svc.CreatePublisher(ctx, domain.PublisherRequest{PublisherName: "Beta"})
	require.NoError(t, err)

	_, err = svc.CreatePublisher(ctx, domain.PublisherRequest{PublisherName: "Alpha"})
	assert.ErrorIs(t, err, domain.ErrPublisherNameTaken)

	_, err = svc.UpdatePublisher(ctx, beta.ID, domain.PublisherRequest{PublisherName: "Alpha"})
	assert.ErrorIs(t, err, domain.ErrPublisherNameTaken)

	var count int64
	require.NoError(t, db.Model(&entities.Publisher{}).Where("publisher_name = ?", "Alpha").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
