package models

import (
	"encoding/base64"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a single registration stored in the users collection.
// Records are never updated or deleted once inserted.
type User struct {
	ID             primitive.ObjectID `json:"id"             bson:"_id,omitempty"`
	Firstname      string             `json:"firstname"      bson:"firstname"`
	Lastname       string             `json:"lastname"       bson:"lastname"`
	Username       string             `json:"username"       bson:"username"`
	Password       string             `json:"-"              bson:"password"` // bcrypt hash, never serialize
	Image          []byte             `json:"-"              bson:"image,omitempty"`
	ImageType      string             `json:"-"              bson:"image_type,omitempty"`
	DOB            time.Time          `json:"dob"            bson:"dob"`
	Email          string             `json:"email"          bson:"email"`
	Phone          string             `json:"phone"          bson:"phone"`
	Gender         string             `json:"gender"         bson:"gender"`
	Qualifications string             `json:"qualifications" bson:"qualifications"`
	CreatedAt      time.Time          `json:"created_at"     bson:"created_at"`
}

// Projection is the public shape of a user returned by signin and search.
// The password is omitted and the image, if any, is a data URI ready for
// direct embedding by a client.
type Projection struct {
	Firstname      string  `json:"firstname"`
	Lastname       string  `json:"lastname"`
	Username       string  `json:"username"`
	DOB            string  `json:"dob"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Gender         string  `json:"gender"`
	Qualifications string  `json:"qualifications"`
	Image          *string `json:"image"`
}

// Project builds the public projection of u. The data URI carries the
// content type recorded at upload time.
func (u *User) Project() Projection {
	p := Projection{
		Firstname:      u.Firstname,
		Lastname:       u.Lastname,
		Username:       u.Username,
		DOB:            u.DOB.Format("2006-01-02"),
		Email:          u.Email,
		Phone:          u.Phone,
		Gender:         u.Gender,
		Qualifications: u.Qualifications,
	}
	if len(u.Image) > 0 {
		uri := "data:" + u.ImageType + ";base64," + base64.StdEncoding.EncodeToString(u.Image)
		p.Image = &uri
	}
	return p
}

// SigninRequest is the JSON body for POST /signin.
type SigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
