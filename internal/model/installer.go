package model

import "time"

// Installer is the loyalty-program member record. Owned by the installer
// CRUD surface; the promotion lifecycle only reads it.
type Installer struct {
	ID          string      `bson:"_id" json:"id"`
	Name        string      `bson:"name" json:"name"`
	Status      string      `bson:"status" json:"status"`
	JoinedAt    time.Time   `bson:"joined_at" json:"joined_at"`
	Performance Performance `bson:"performance" json:"performance"`
}

// Performance holds the installer's rolling quality metrics.
type Performance struct {
	AverageRating float64 `bson:"average_rating" json:"average_rating"`
}

// SerialRegistration is one registered inverter serial number. It is the
// activity record progress is computed from; the promotion lifecycle never
// mutates these.
type SerialRegistration struct {
	InstallerID  string    `bson:"installer_id" json:"installer_id"`
	SerialNumber string    `bson:"serial_number" json:"serial_number"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	Location     Location  `bson:"location" json:"location"`
}

// Location is where an installation was performed.
type Location struct {
	City string `bson:"city" json:"city"`
}
