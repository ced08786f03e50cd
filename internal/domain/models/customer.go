package models

type DocumentFile struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	URL  string       `json:"url"`
	Type DocumentType `json:"type"`
}

type Customer struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Phone          string         `json:"phone"`
	Email          string         `json:"email"`
	PassportNumber string         `json:"passportNumber"`
	PassportExpiry string         `json:"passportExpiry"`
	Age            int            `json:"age"`
	Gender         Gender         `json:"gender"`
	Documents      []DocumentFile `json:"documents"`
	DateAdded      string         `json:"dateAdded"`
}

// Package is a catalog entry; Price is in whole EGP.
type Package struct {
	ID           string      `json:"id"`
	PackageCode  string      `json:"packageCode"`
	Name         string      `json:"name"`
	Type         PackageType `json:"type"`
	Duration     int         `json:"duration"`
	Price        int64       `json:"price"`
	Description  string      `json:"description"`
	HotelMakkah  string      `json:"hotelMakkah"`
	HotelMadinah string      `json:"hotelMadinah"`
	Includes     []string    `json:"includes"`
	IsFeatured   bool        `json:"isFeatured"`
}
