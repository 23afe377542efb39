package registration

import (
	"net/mail"
	"strconv"
	"strings"

	"chainregistry/pkg/domain"
	dErrors "chainregistry/pkg/domain-errors"
)

const (
	maxNameLength = 128
	maxAge        = 150
)

// RegisterUserRequest carries the identity fields and the two raw identity
// documents. Documents are staged locally; only their hashes reach the ledger.
// Over JSON the documents travel as standard base64.
type RegisterUserRequest struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	City   string `json:"city"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
	Aadhar []byte `json:"aadhar"`
	PAN    []byte `json:"pan"`
}

// Validate normalises and checks the request before anything is staged.
func (r *RegisterUserRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	r.City = strings.TrimSpace(r.City)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = strings.TrimSpace(r.Email)

	if r.Name == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "name is required")
	}
	if len(r.Name) > maxNameLength {
		return dErrors.New(dErrors.CodeInvalidInput, "name must be at most 128 characters")
	}
	if r.Age <= 0 || r.Age > maxAge {
		return dErrors.New(dErrors.CodeInvalidInput, "age must be between 1 and 150")
	}
	if r.City == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "city is required")
	}
	if !validPhone(r.Phone) {
		return dErrors.New(dErrors.CodeInvalidInput, "phone must be 7 to 15 digits with an optional leading +")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "email is invalid")
	}
	if len(r.Aadhar) == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "aadhar document is required")
	}
	if len(r.PAN) == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "pan document is required")
	}
	return nil
}

func validPhone(p string) bool {
	p = strings.TrimPrefix(p, "+")
	if len(p) < 7 || len(p) > 15 {
		return false
	}
	for _, c := range p {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// AddLandRequest mirrors the land form. Area, Price and ParcelID arrive as
// text and must be non-negative integers.
type AddLandRequest struct {
	Coordinates  []string `json:"coordinates"`
	Area         string   `json:"area"`
	Address      string   `json:"address"`
	Price        string   `json:"price"`
	ParcelID     string   `json:"parcel_id"`
	SurveyNumber string   `json:"survey_number"`
	LandType     string   `json:"land_type"`

	// Parsed values (populated by Validate)
	area     uint64
	price    uint64
	parcelID uint64
}

func (r *AddLandRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Coordinates) == 0 {
		return dErrors.New(dErrors.CodeInvalidInput, "at least one coordinate is required")
	}
	coords := make([]string, len(r.Coordinates))
	for i, c := range r.Coordinates {
		c = strings.TrimSpace(c)
		if _, err := strconv.ParseFloat(c, 64); err != nil {
			return dErrors.New(dErrors.CodeInvalidInput, "coordinates must be decimal numbers")
		}
		coords[i] = c
	}
	r.Coordinates = coords

	var err error
	if r.area, err = parseAmount("area", r.Area); err != nil {
		return err
	}
	if r.price, err = parseAmount("price", r.Price); err != nil {
		return err
	}
	if r.parcelID, err = parseAmount("parcel id", r.ParcelID); err != nil {
		return err
	}

	r.Address = strings.TrimSpace(r.Address)
	r.SurveyNumber = strings.TrimSpace(r.SurveyNumber)
	r.LandType = strings.TrimSpace(r.LandType)
	if r.Address == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "address is required")
	}
	if r.SurveyNumber == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "survey number is required")
	}
	if r.LandType == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "land type is required")
	}
	return nil
}

func parseAmount(field, raw string) (uint64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, field+" must be a whole non-negative number")
	}
	return n, nil
}

// Arguments returns the ordered addLand arguments. Call Validate first.
func (r *AddLandRequest) Arguments() []any {
	return []any{
		r.Coordinates,
		r.area,
		r.Address,
		r.price,
		r.parcelID,
		r.SurveyNumber,
		r.LandType,
	}
}

// VerifyRequest names the pending user to approve.
type VerifyRequest struct {
	Address string `json:"address"`

	parsed domain.Address
}

func (r *VerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	addr, err := domain.ParseAddress(r.Address)
	if err != nil {
		return err
	}
	if addr.IsSentinel() {
		return dErrors.New(dErrors.CodeInvalidInput, "the zero address cannot be verified")
	}
	r.parsed = addr
	return nil
}

// ParsedAddress returns the validated address.
func (r *VerifyRequest) ParsedAddress() domain.Address {
	return r.parsed
}
