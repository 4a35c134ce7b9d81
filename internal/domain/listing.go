package domain

import "time"

// Condition values accepted on a car listing.
const (
	ConditionNew  = "NEW"
	ConditionUsed = "USED"
)

// MediaObject is a file uploaded to the media host. Key is the deletion
// handle; URL is durable and safe to hand to clients.
type MediaObject struct {
	URL          string `json:"url" dynamodbav:"url"`
	Key          string `json:"-" dynamodbav:"key"`
	OriginalName string `json:"original_name,omitempty" dynamodbav:"original_name"`
}

// CarListing is a vehicle offered by the dealership.
type CarListing struct {
	ListingID    string   `json:"id" dynamodbav:"listing_id"`
	Title        string   `json:"title" dynamodbav:"title"`
	Make         string   `json:"make,omitempty" dynamodbav:"make"`
	Model        string   `json:"model,omitempty" dynamodbav:"model"`
	Year         int      `json:"year,omitempty" dynamodbav:"year"`
	Condition    string   `json:"condition" dynamodbav:"condition"`
	Type         string   `json:"type,omitempty" dynamodbav:"type"`
	Price        float64  `json:"price,omitempty" dynamodbav:"price"`
	Color        string   `json:"color,omitempty" dynamodbav:"color"`
	Mileage      float64  `json:"mileage,omitempty" dynamodbav:"mileage"`
	Transmission string   `json:"transmission,omitempty" dynamodbav:"transmission"`
	FuelType     string   `json:"fuel_type,omitempty" dynamodbav:"fuel_type"`
	VideoLink    string   `json:"video_link,omitempty" dynamodbav:"video_link"`
	DriveType    string   `json:"drive_type,omitempty" dynamodbav:"drive_type"`
	EngineSize   float64  `json:"engine_size,omitempty" dynamodbav:"engine_size"`
	Cylinders    int      `json:"cylinders,omitempty" dynamodbav:"cylinders"`
	Doors        int      `json:"doors,omitempty" dynamodbav:"doors"`
	VIN          string   `json:"vin,omitempty" dynamodbav:"vin"`
	Description  string   `json:"description,omitempty" dynamodbav:"description"`
	Features     []string `json:"features,omitempty" dynamodbav:"features"`
	SafetyFeats  []string `json:"safety_features,omitempty" dynamodbav:"safety_features"`

	GalleryImages []MediaObject `json:"gallery_images,omitempty" dynamodbav:"gallery_images"`
	Attachments   []MediaObject `json:"attachments,omitempty" dynamodbav:"attachments"`

	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

// CarListingInput is the validated form payload for create and update.
type CarListingInput struct {
	Title        string   `json:"title" validate:"required"`
	Make         string   `json:"make"`
	Model        string   `json:"model"`
	Year         int      `json:"year"`
	Condition    string   `json:"condition" validate:"required,oneof=NEW USED"`
	Type         string   `json:"type"`
	Price        float64  `json:"price" validate:"gte=0"`
	Color        string   `json:"color"`
	Mileage      float64  `json:"mileage"`
	Transmission string   `json:"transmission"`
	FuelType     string   `json:"fuel_type"`
	VideoLink    string   `json:"video_link"`
	DriveType    string   `json:"drive_type"`
	EngineSize   float64  `json:"engine_size"`
	Cylinders    int      `json:"cylinders"`
	Doors        int      `json:"doors"`
	VIN          string   `json:"vin"`
	Description  string   `json:"description"`
	Features     []string `json:"features"`
	SafetyFeats  []string `json:"safety_features"`
}

// Pagination describes a page of listing results.
type Pagination struct {
	TotalItems   int `json:"totalItems"`
	TotalPages   int `json:"totalPages"`
	CurrentPage  int `json:"currentPage"`
	ItemsPerPage int `json:"itemsPerPage"`
}
