package domain

import "time"

// TeamMember is a staff record shown on the dealership site.
type TeamMember struct {
	MemberID string       `json:"id" dynamodbav:"member_id"`
	Name     string       `json:"name" dynamodbav:"name"`
	Role     string       `json:"role" dynamodbav:"role"`
	Email    string       `json:"email" dynamodbav:"email"`
	Phone    string       `json:"phone" dynamodbav:"phone"`
	Image    *MediaObject `json:"image,omitempty" dynamodbav:"image"`

	CreatedAt time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt time.Time `json:"updated" dynamodbav:"updated_at"`
}

type TeamMemberInput struct {
	Name  string `json:"name" validate:"required"`
	Role  string `json:"role" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}
