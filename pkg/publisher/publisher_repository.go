package publisher

import (
	"context"
	"errors"

	"recipe-finder/entities"

	"gorm.io/gorm"
)

type (
	PublisherRepository interface {
		WithTx(tx *gorm.DB) PublisherRepository

		GetPublishers(ctx context.Context) ([]*entities.Publisher, error)
		CountRecipesByPublisher(ctx context.Context) (map[string]int64, error)
		CountRecipes(ctx context.Context, publisherID string) (int64, error)
		GetPublisherByID(ctx context.Context, id string) (*entities.Publisher, error)
		GetPublisherByName(ctx context.Context, name string) (*entities.Publisher, error)
		CreatePublisher(ctx context.Context, publisher *entities.Publisher) error
		UpdatePublisher(ctx context.Context, publisher *entities.Publisher) error
		DeletePublisher(ctx context.Context, id string) error
		GetOrCreatePublisher(ctx context.Context, name string, url string) (*entities.Publisher, error)
	}

	publisherRepository struct {
		db *gorm.DB
	}

	recipeCount struct {
		PublisherID string
		Total       int64
	}
)

func NewPublisherRepository(db *gorm.DB) PublisherRepository {
	return &publisherRepository{db: db}
}

func (r *publisherRepository) WithTx(tx *gorm.DB) PublisherRepository {
	if tx == nil {
		return r
	}
	return &publisherRepository{db: tx}
}

func (r *publisherRepository) GetPublishers(ctx context.Context) ([]*entities.Publisher, error) {
	var publishers []*entities.Publisher
	if err := r.db.WithContext(ctx).Order("publisher_name ASC").Find(&publishers).Error; err != nil {
		return nil, err
	}
	return publishers, nil
}

func (r *publisherRepository) CountRecipesByPublisher(ctx context.Context) (map[string]int64, error) {
	var rows []recipeCount
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Select("publisher_id, COUNT(*) AS total").
		Group("publisher_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.PublisherID] = row.Total
	}
	return counts, nil
}

func (r *publisherRepository) CountRecipes(ctx context.Context, publisherID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("publisher_id = ?", publisherID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *publisherRepository) GetPublisherByID(ctx context.Context, id string) (*entities.Publisher, error) {
	var publisher entities.Publisher
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&publisher).Error; err != nil {
		return nil, err
	}
	return &publisher, nil
}

func (r *publisherRepository) GetPublisherByName(ctx context.Context, name string) (*entities.Publisher, error) {
	var publisher entities.Publisher
	if err := r.db.WithContext(ctx).Where("publisher_name = ?", name).First(&publisher).Error; err != nil {
		return nil, err
	}
	return &publisher, nil
}

func (r *publisherRepository) CreatePublisher(ctx context.Context, publisher *entities.Publisher) error {
	return r.db.WithContext(ctx).Create(publisher).Error
}

func (r *publisherRepository) UpdatePublisher(ctx context.Context, publisher *entities.Publisher) error {
	return r.db.WithContext(ctx).Save(publisher).Error
}

func (r *publisherRepository) DeletePublisher(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Publisher{}).Error
}

// GetOrCreatePublisher matches name exactly. The url is only used when the
// publisher is created.
func (r *publisherRepository) GetOrCreatePublisher(ctx context.Context, name string, url string) (*entities.Publisher, error) {
	publisher, err := r.GetPublisherByName(ctx, name)
	if err == nil {
		return publisher, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	publisher = &entities.Publisher{PublisherName: name, PublisherURL: url}
	if err := r.CreatePublisher(ctx, publisher); err != nil {
		return nil, err
	}
	return publisher, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
