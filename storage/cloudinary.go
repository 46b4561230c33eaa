package storage

import (
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"ferim-server/models"
)

// Cloudinary configuration via environment variables:
// CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY, CLOUDINARY_API_SECRET,
// CLOUDINARY_FOLDER (optional).

var errCloudinaryNotConfigured = errors.New("cloudinary credentials not configured")

func cloudinaryCredentials() (cloudName, apiKey, apiSecret, folder string, err error) {
	cloudName = os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey = os.Getenv("CLOUDINARY_API_KEY")
	apiSecret = os.Getenv("CLOUDINARY_API_SECRET")
	folder = os.Getenv("CLOUDINARY_FOLDER")
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		err = errCloudinaryNotConfigured
	}
	return
}

// UploadBase64Image performs a signed upload of a base64 payload and returns
// the stored image reference. A data-URI prefix on the payload is tolerated.
func UploadBase64Image(base64ImageSrc string, publicID string) (models.Image, error) {
	if base64ImageSrc == "" {
		return models.Image{}, errors.New("empty image payload")
	}

	payload := base64ImageSrc
	if i := strings.Index(base64ImageSrc, ","); i != -1 {
		payload = base64ImageSrc[i+1:]
	}

	cloudName, apiKey, apiSecret, folder, err := cloudinaryCredentials()
	if err != nil {
		return models.Image{}, err
	}

	finalPublicID := publicID
	if folder != "" {
		finalPublicID = folder + "/" + publicID
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	signatureString := fmt.Sprintf("public_id=%s&timestamp=%s%s", finalPublicID, timestamp, apiSecret)
	signature := fmt.Sprintf("%x", sha1.Sum([]byte(signatureString)))

	form := url.Values{}
	form.Add("file", "data:image/jpeg;base64,"+payload)
	form.Add("api_key", apiKey)
	form.Add("public_id", finalPublicID)
	form.Add("timestamp", timestamp)
	form.Add("signature", signature)

	endpoint := "https://api.cloudinary.com/v1_1/" + cloudName + "/image/upload"
	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return models.Image{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return models.Image{}, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return models.Image{}, err
	}
	if res.StatusCode != http.StatusOK {
		return models.Image{}, fmt.Errorf("cloudinary upload failed with status %d: %s", res.StatusCode, body)
	}

	var cloudRes struct {
		PublicID  string `json:"public_id"`
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &cloudRes); err != nil {
		return models.Image{}, err
	}
	if cloudRes.Error.Message != "" {
		return models.Image{}, errors.New("cloudinary: " + cloudRes.Error.Message)
	}

	imageURL := cloudRes.SecureURL
	if imageURL == "" {
		imageURL = cloudRes.URL
	}
	if imageURL == "" {
		return models.Image{}, errors.New("cloudinary returned no URL")
	}

	return models.Image{PublicID: cloudRes.PublicID, URL: imageURL}, nil
}

// DeleteImage removes a previously uploaded image by its public ID.
func DeleteImage(publicID string) error {
	cloudName, apiKey, apiSecret, _, err := cloudinaryCredentials()
	if err != nil {
		return err
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	signatureString := fmt.Sprintf("public_id=%s&timestamp=%s%s", publicID, timestamp, apiSecret)
	signature := fmt.Sprintf("%x", sha1.Sum([]byte(signatureString)))

	form := url.Values{}
	form.Add("public_id", publicID)
	form.Add("api_key", apiKey)
	form.Add("timestamp", timestamp)
	form.Add("signature", signature)

	endpoint := "https://api.cloudinary.com/v1_1/" + cloudName + "/image/destroy"
	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("cloudinary destroy failed with status %d: %s", res.StatusCode, body)
	}

	var deleteRes struct {
		Result string `json:"result"`
		Error  struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &deleteRes); err != nil {
		return err
	}
	if deleteRes.Error.Message != "" {
		return errors.New("cloudinary: " + deleteRes.Error.Message)
	}
	if deleteRes.Result != "ok" {
		return errors.New("cloudinary destroy result: " + deleteRes.Result)
	}
	return nil
}
