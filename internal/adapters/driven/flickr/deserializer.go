package flickr

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/custodia-labs/imgsearch/internal/core/domain"
)

// imageURLFormat builds the static URL of a photo from its farm, server,
// id and secret.
const imageURLFormat = "http://farm%d.static.flickr.com/%s/%s_%s.jpg"

// ParsePage decodes a flickr.photos.search JSON response.
func ParsePage(body []byte) (domain.Page, error) {
	if !gjson.ValidBytes(body) {
		return domain.Page{}, fmt.Errorf("%w: invalid json", ErrMalformedResponse)
	}
	root := gjson.ParseBytes(body)

	if root.Get("stat").String() == "fail" {
		return domain.Page{}, &APIError{
			StatusCode: 200,
			Code:       int(root.Get("code").Int()),
			Message:    root.Get("message").String(),
		}
	}

	photos := root.Get("photos")
	if !photos.IsObject() {
		return domain.Page{}, fmt.Errorf("%w: missing photos", ErrMalformedResponse)
	}

	page, pages, list := photos.Get("page"), photos.Get("pages"), photos.Get("photo")
	if !page.Exists() || !pages.Exists() {
		return domain.Page{}, fmt.Errorf("%w: missing page count", ErrMalformedResponse)
	}
	if !list.IsArray() {
		return domain.Page{}, fmt.Errorf("%w: missing photo list", ErrMalformedResponse)
	}

	photoList := list.Array()
	images := make([]domain.Image, 0, len(photoList))
	for i, photo := range photoList {
		fields := gjson.GetMany(photo.Raw, "farm", "server", "id", "secret")
		for _, f := range fields {
			if !f.Exists() {
				return domain.Page{}, fmt.Errorf("%w: photo %d is incomplete", ErrMalformedResponse, i)
			}
		}
		images = append(images, domain.Image{
			URL: fmt.Sprintf(imageURLFormat, fields[0].Int(), fields[1].String(), fields[2].String(), fields[3].String()),
		})
	}

	return domain.Page{
		CurrentPage: int(page.Int()),
		TotalPages:  int(pages.Int()),
		Items:       images,
	}, nil
}
