package domain

var (
	MessageSuccessGetPublishers   = "success get publishers"
	MessageSuccessCreatePublisher = "Publisher added successfully!"
	MessageSuccessUpdatePublisher = "Publisher updated successfully!"
	MessageSuccessDeletePublisher = "Publisher deleted successfully!"

	MessageFailedGetPublishers   = "failed to get publishers"
	MessageFailedCreatePublisher = "failed to add publisher"
	MessageFailedUpdatePublisher = "failed to update publisher"
	MessageFailedDeletePublisher = "failed to delete publisher"

	ErrPublisherNotFound  = NewError(KindNotFound, "publisher not found")
	ErrPublisherNameTaken = NewError(KindValidationConflict, "a publisher with this name already exists")
	ErrPublisherInUse     = NewError(KindValidationConflict, "cannot delete publisher because it has associated recipes")
	ErrUnknownAction      = NewError(KindValidationConflict, "unknown publisher action")
)

const (
	PublisherActionAdd    = "add"
	PublisherActionEdit   = "edit"
	PublisherActionDelete = "delete"
)

type (
	PublisherActionRequest struct {
		Action        string `json:"action" form:"action" validate:"required,oneof=add edit delete"`
		PublisherID   string `json:"publisher_id" form:"publisher_id" validate:"omitempty,uuid"`
		PublisherName string `json:"publisher_name" form:"publisher_name" validate:"max=100"`
		PublisherURL  string `json:"publisher_url" form:"publisher_url" validate:"max=255"`
	}

	PublisherRequest struct {
		PublisherName string `json:"publisher_name" validate:"required,max=100"`
		PublisherURL  string `json:"publisher_url" validate:"max=255"`
	}

	Publisher struct {
		ID            string `json:"id"`
		PublisherName string `json:"publisher_name"`
		PublisherURL  string `json:"publisher_url"`
		RecipeCount   int64  `json:"recipe_count"`
	}
)
