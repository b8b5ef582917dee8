package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"lumea_back_end/internal/database"
)

// UploadProductImage stocke une image produit dans MinIO et renvoie son URL publique.
// Le nom d'objet est préfixé par l'ID produit et un UUID pour éviter les collisions.
func UploadProductImage(ctx context.Context, productID string, file *multipart.FileHeader) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	bucket := os.Getenv("MINIO_BUCKET")
	objectName := fmt.Sprintf("products/%s/%s%s", productID, uuid.New().String(), path.Ext(file.Filename))

	_, err = database.MinIO.PutObject(ctx, bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	scheme := "http"
	if os.Getenv("MINIO_USE_SSL") == "true" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, os.Getenv("MINIO_ENDPOINT"), bucket, objectName), nil
}

// DeleteProductImage supprime une image produit de MinIO à partir de son URL publique.
func DeleteProductImage(ctx context.Context, imageURL string) error {
	if database.MinIO == nil {
		return fmt.Errorf("MinIO non initialisé")
	}

	bucket := os.Getenv("MINIO_BUCKET")
	key := objectKeyFromURL(imageURL, bucket)
	if key == "" {
		return fmt.Errorf("URL image invalide: %s", imageURL)
	}

	return database.MinIO.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
}

// GenerateSignedURL génère une URL signée avec expiration pour un objet du bucket.
func GenerateSignedURL(ctx context.Context, objectPath string, duration time.Duration) (string, error) {
	if database.MinIO == nil {
		return "", fmt.Errorf("MinIO non initialisé")
	}

	bucket := os.Getenv("MINIO_BUCKET")
	key := objectKeyFromURL(objectPath, bucket)
	if key == "" {
		key = objectPath
	}

	presignedURL, err := database.MinIO.PresignedGetObject(ctx, bucket, key, duration, make(url.Values))
	if err != nil {
		return "", err
	}

	return presignedURL.String(), nil
}

// SignImageURLs remplace chaque URL publique par une URL signée temporaire.
// Si MinIO n'est pas disponible ou que la signature échoue, l'URL d'origine
// est conservée : les lectures produit ne doivent jamais casser pour ça.
func SignImageURLs(ctx context.Context, imageURLs []string) []string {
	if database.MinIO == nil || len(imageURLs) == 0 {
		return imageURLs
	}

	signed := make([]string, 0, len(imageURLs))
	for _, imageURL := range imageURLs {
		signedURL, err := GenerateSignedURL(ctx, imageURL, 24*time.Hour)
		if err != nil {
			signed = append(signed, imageURL)
			continue
		}
		signed = append(signed, signedURL)
	}
	return signed
}

// objectKeyFromURL extrait la clé objet d'une URL publique MinIO.
func objectKeyFromURL(imageURL, bucket string) string {
	marker := "/" + bucket + "/"
	idx := strings.Index(imageURL, marker)
	if idx < 0 {
		return ""
	}
	return imageURL[idx+len(marker):]
}
