package fsx

import (
	"context"
	"time"
)

// FileSystem abstrae el almacenamiento de archivos (local o S3).
// Las keys son rutas relativas tipo "candidates/<id>/photo.jpg"
type FileSystem interface {
	// Exists verifica si existe un archivo con la key dada
	Exists(ctx context.Context, key string) (bool, error)

	// Read retorna el contenido completo del archivo
	Read(ctx context.Context, key string) ([]byte, error)

	// Write guarda el contenido bajo la key, sobrescribiendo si existe
	Write(ctx context.Context, key string, data []byte, contentType string) error

	// Delete elimina el archivo; no es error si no existe
	Delete(ctx context.Context, key string) error

	// SignedURL retorna una URL temporal de lectura para la key
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
