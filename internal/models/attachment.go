package models

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

const (
	AttachmentNone   = "none"
	AttachmentCode   = "code"
	AttachmentLink   = "link"
	AttachmentImages = "images"
)

var ErrMultipleAttachments = errors.New("a post can carry only one of code, link or images")

// Attachment is a tagged variant: Kind selects which one of Code, Link or Images is set.
type Attachment struct {
	Kind   string         `gorm:"column:kind;type:varchar(16);not null;default:none" json:"kind"`
	Code   string         `gorm:"column:code;type:text" json:"code,omitempty"`
	Link   string         `gorm:"column:link;type:text" json:"link,omitempty"`
	Images pq.StringArray `gorm:"column:images;type:text[]" json:"images,omitempty"`
}

func NoAttachment() Attachment { return Attachment{Kind: AttachmentNone} }

func CodeAttachment(code string) Attachment {
	return Attachment{Kind: AttachmentCode, Code: code}
}

func LinkAttachment(link string) Attachment {
	return Attachment{Kind: AttachmentLink, Link: link}
}

func ImagesAttachment(images []string) Attachment {
	return Attachment{Kind: AttachmentImages, Images: pq.StringArray(append([]string(nil), images...))}
}

// NewAttachment builds the variant from the optional request fields. Blank values count as absent.
func NewAttachment(code, link *string, images []string) (Attachment, error) {
	var set []Attachment
	if code != nil && strings.TrimSpace(*code) != "" {
		set = append(set, CodeAttachment(*code))
	}
	if link != nil && strings.TrimSpace(*link) != "" {
		set = append(set, LinkAttachment(strings.TrimSpace(*link)))
	}
	if len(images) > 0 {
		set = append(set, ImagesAttachment(images))
	}

	switch len(set) {
	case 0:
		return NoAttachment(), nil
	case 1:
		return set[0], nil
	default:
		return Attachment{}, ErrMultipleAttachments
	}
}
