package media

import (
	"context"
	"time"

	"emperror.dev/errors"
	"github.com/go-resty/resty/v2"
)

// maxImageBytes is the upload limit of a guild without boosts
const maxImageBytes = 25 << 20

var ErrTooLarge = errors.Sentinel("attachment exceeds the upload limit")

// Downloader fetches attachments from the discord CDN so they can be re-uploaded
type Downloader struct {
	Client *resty.Client
}

func NewDownloader() *Downloader {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "GTANBot (https://github.com/GTANeijasAcc/GTANBot)")

	return &Downloader{Client: client}
}

// Fetch downloads url and returns its body
func (d *Downloader) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := d.Client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, errors.WithMessage(err, "download attachment")
	}

	if resp.IsError() {
		return nil, errors.WithDetails(errors.New("download attachment: unexpected status"), "status", resp.StatusCode(), "url", url)
	}

	body := resp.Body()
	if len(body) > maxImageBytes {
		return nil, ErrTooLarge
	}
	return body, nil
}
