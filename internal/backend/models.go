package backend

import (
	"encoding/json"
	"time"
)

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role"`
}

type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

type Category struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Slug          string   `json:"slug,omitempty"`
	SubCategories []string `json:"subCategories,omitempty"`
}

// Pair is a key/value row (specifications, feature pairs).
type Pair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Feature struct {
	Icon  string `json:"icon"`
	Label string `json:"label"`
}

type SchemeFlags struct {
	OnSale     bool `json:"onSale"`
	BestSeller bool `json:"bestSeller"`
	NewArrival bool `json:"newArrival"`
	Featured   bool `json:"featured"`
}

type Color struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	ImageURL string `json:"imageUrl,omitempty"`
	Stock    int    `json:"stock"`
}

type Model struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Specifications []Pair    `json:"specifications,omitempty"`
	Warranty       []string  `json:"warranty,omitempty"`
	Price          float64   `json:"price"`
	DiscountPrice  float64   `json:"discountPrice,omitempty"`
	Colors         []Color   `json:"colors,omitempty"`
	Features       []Feature `json:"features,omitempty"`
}

type Product struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Category    string      `json:"category"`
	Description string      `json:"description,omitempty"`
	Status      string      `json:"status"`
	Models      []Model     `json:"models,omitempty"`
	Schemes     SchemeFlags `json:"schemes"`
	CreatedAt   time.Time   `json:"createdAt,omitempty"`
}

type Accessory struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Category       string    `json:"category"`
	Description    string    `json:"description,omitempty"`
	Price          float64   `json:"price"`
	Specifications []Pair    `json:"specifications,omitempty"`
	Warranty       []string  `json:"warranty,omitempty"`
	Features       []Pair    `json:"features,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
}

type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	Reply     string    `json:"reply,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// ProductSchemes is one row of the sales-scheme admin table.
type ProductSchemes struct {
	ProductID string      `json:"productId"`
	Title     string      `json:"title"`
	Schemes   SchemeFlags `json:"schemes"`
}

type ProductInput struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

type ModelInput struct {
	Name           string   `json:"name"`
	Description    string   `json:"description,omitempty"`
	Specifications []Pair   `json:"specifications"`
	Warranty       []string `json:"warranty"`
	Price          float64  `json:"price"`
	DiscountPrice  float64  `json:"discountPrice,omitempty"`
}

type ColorInput struct {
	Name  string
	Code  string
	Stock int
	Image *FilePart
}

type AccessoryInput struct {
	Title          string   `json:"title"`
	Category       string   `json:"category"`
	Description    string   `json:"description,omitempty"`
	Price          float64  `json:"price"`
	Specifications []Pair   `json:"specifications"`
	Warranty       []string `json:"warranty"`
}

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// Created is the answer of every create call. The backend names the id
// either "id" or "_id".
type Created struct {
	ID string `json:"id"`
}

func (c *Created) UnmarshalJSON(b []byte) error {
	var v struct {
		ID  string `json:"id"`
		MID string `json:"_id"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	c.ID = v.ID
	if c.ID == "" {
		c.ID = v.MID
	}
	return nil
}
