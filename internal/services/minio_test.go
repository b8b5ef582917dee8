package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKeyFromURL(t *testing.T) {
	cases := []struct {
		name   string
		url    string
		bucket string
		want   string
	}{
		{
			"URL publique complète",
			"http://localhost:9000/lumea/products/p-1/abc.jpg",
			"lumea",
			"products/p-1/abc.jpg",
		},
		{
			"HTTPS avec domaine",
			"https://cdn.lumea.fr/lumea/products/p-2/def.png",
			"lumea",
			"products/p-2/def.png",
		},
		{
			"bucket absent de l'URL",
			"http://localhost:9000/autre/products/p-3/ghi.jpg",
			"lumea",
			"",
		},
		{
			"chaîne vide",
			"",
			"lumea",
			"",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, objectKeyFromURL(tc.url, tc.bucket))
		})
	}
}

func TestSignImageURLsWithoutMinio(t *testing.T) {
	// Sans client MinIO, les URLs passent telles quelles — une lecture produit
	// ne doit jamais échouer à cause de la signature
	urls := []string{
		"http://localhost:9000/lumea/products/p-1/abc.jpg",
		"http://localhost:9000/lumea/products/p-1/def.jpg",
	}

	assert.Equal(t, urls, SignImageURLs(context.Background(), urls))
	assert.Empty(t, SignImageURLs(context.Background(), nil))
}
