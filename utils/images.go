package utils

import (
	"context"
	"os"

	"github.com/cloudinary/cloudinary-go"
	"github.com/cloudinary/cloudinary-go/api/uploader"
)

// UploadRoomImages pushes base64 data URIs to Cloudinary and returns the
// secure URLs in the same order they were given, so the first image stays the
// cover photo.
func UploadRoomImages(ctx context.Context, images []string) ([]string, error) {
	cld, err := cloudinary.NewFromURL(os.Getenv("CLOUDINARY_URL"))
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(images))
	for _, image := range images {
		resp, err := cld.Upload.Upload(ctx, image, uploader.UploadParams{
			Folder: "dekites/rooms",
		})
		if err != nil {
			return nil, err
		}
		urls = append(urls, resp.SecureURL)
	}
	return urls, nil
}
