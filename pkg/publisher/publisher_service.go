package publisher

import (
	"context"
	"errors"
	"strings"

	"recipe-finder/domain"
	"recipe-finder/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	PublisherService interface {
		GetPublishers(ctx context.Context) ([]domain.Publisher, error)
		CreatePublisher(ctx context.Context, req domain.PublisherRequest) (domain.Publisher, error)
		UpdatePublisher(ctx context.Context, publisherID string, req domain.PublisherRequest) (domain.Publisher, error)
		DeletePublisher(ctx context.Context, publisherID string) error
		ApplyAction(ctx context.Context, req domain.PublisherActionRequest) (string, error)
	}

	publisherService struct {
		publisherRepository PublisherRepository
	}
)

func NewPublisherService(publisherRepository PublisherRepository) PublisherService {
	return &publisherService{
		publisherRepository: publisherRepository,
	}
}

func (s *publisherService) GetPublishers(ctx context.Context) ([]domain.Publisher, error) {
	publishers, err := s.publisherRepository.GetPublishers(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.publisherRepository.CountRecipesByPublisher(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]domain.Publisher, 0, len(publishers))
	for _, p := range publishers {
		item := ToPublisherResponse(p)
		item.RecipeCount = counts[p.ID.String()]
		res = append(res, item)
	}
	return res, nil
}

func (s *publisherService) CreatePublisher(ctx context.Context, req domain.PublisherRequest) (domain.Publisher, error) {
	name := strings.TrimSpace(req.PublisherName)
	if name == "" {
		return domain.Publisher{}, domain.ErrPublisherRequired
	}
	if err := s.ensureNameFree(ctx, name, ""); err != nil {
		return domain.Publisher{}, err
	}

	publisher := &entities.Publisher{
		PublisherName: name,
		PublisherURL:  strings.TrimSpace(req.PublisherURL),
	}
	if err := s.publisherRepository.CreatePublisher(ctx, publisher); err != nil {
		return domain.Publisher{}, nameConflict(err)
	}
	return ToPublisherResponse(publisher), nil
}

func (s *publisherService) UpdatePublisher(ctx context.Context, publisherID string, req domain.PublisherRequest) (domain.Publisher, error) {
	publisher, err := s.getPublisher(ctx, publisherID)
	if err != nil {
		return domain.Publisher{}, err
	}

	name := strings.TrimSpace(req.PublisherName)
	if name == "" {
		return domain.Publisher{}, domain.ErrPublisherRequired
	}
	if err := s.ensureNameFree(ctx, name, publisher.ID.String()); err != nil {
		return domain.Publisher{}, err
	}

	publisher.PublisherName = name
	publisher.PublisherURL = strings.TrimSpace(req.PublisherURL)
	if err := s.publisherRepository.UpdatePublisher(ctx, publisher); err != nil {
		return domain.Publisher{}, nameConflict(err)
	}
	return ToPublisherResponse(publisher), nil
}

// DeletePublisher refuses while any recipe still references the publisher.
func (s *publisherService) DeletePublisher(ctx context.Context, publisherID string) error {
	publisher, err := s.getPublisher(ctx, publisherID)
	if err != nil {
		return err
	}

	count, err := s.publisherRepository.CountRecipes(ctx, publisher.ID.String())
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrPublisherInUse
	}
	return s.publisherRepository.DeletePublisher(ctx, publisher.ID.String())
}

// ApplyAction runs one add, edit or delete submitted from the publisher
// management form and returns the message to show.
func (s *publisherService) ApplyAction(ctx context.Context, req domain.PublisherActionRequest) (string, error) {
	body := domain.PublisherRequest{PublisherName: req.PublisherName, PublisherURL: req.PublisherURL}

	switch req.Action {
	case domain.PublisherActionAdd:
		_, err := s.CreatePublisher(ctx, body)
		return domain.MessageSuccessCreatePublisher, err
	case domain.PublisherActionEdit:
		_, err := s.UpdatePublisher(ctx, req.PublisherID, body)
		return domain.MessageSuccessUpdatePublisher, err
	case domain.PublisherActionDelete:
		return domain.MessageSuccessDeletePublisher, s.DeletePublisher(ctx, req.PublisherID)
	default:
		return "", domain.ErrUnknownAction
	}
}

func (s *publisherService) getPublisher(ctx context.Context, publisherID string) (*entities.Publisher, error) {
	if _, err := uuid.Parse(publisherID); err != nil {
		return nil, domain.ErrPublisherNotFound
	}

	publisher, err := s.publisherRepository.GetPublisherByID(ctx, publisherID)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrPublisherNotFound
		}
		return nil, err
	}
	return publisher, nil
}

func (s *publisherService) ensureNameFree(ctx context.Context, name, excludeID string) error {
	existing, err := s.publisherRepository.GetPublisherByName(ctx, name)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return err
	}
	if existing.ID.String() != excludeID {
		return domain.ErrPublisherNameTaken
	}
	return nil
}

// nameConflict covers a concurrent writer taking the name after ensureNameFree.
func nameConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrPublisherNameTaken
	}
	return err
}

func ToPublisherResponse(p *entities.Publisher) domain.Publisher {
	return domain.Publisher{
		ID:            p.ID.String(),
		PublisherName: p.PublisherName,
		PublisherURL:  p.PublisherURL,
	}
}
