package main

import (
	"context"
	"log"
	"os"
	"strings"

	"voxelcraft.ai/areas/internal/config"
	"voxelcraft.ai/areas/internal/persistence/r2s3"
)

// buildMirror returns nil when no bucket is configured; a nil mirror ignores
// Enqueue and Close.
func buildMirror(ctx context.Context, st config.StorageSpec, logger *log.Logger) (*r2s3.Mirror, error) {
	mc := st.Mirror
	if mc.Bucket == "" {
		return nil, nil
	}
	client, err := r2s3.New(ctx, r2s3.Config{
		Endpoint:        mc.Endpoint,
		Bucket:          mc.Bucket,
		Region:          mc.Region,
		AccessKeyID:     strings.TrimSpace(os.Getenv("AREAS_MIRROR_ACCESS_KEY_ID")),
		SecretAccessKey: strings.TrimSpace(os.Getenv("AREAS_MIRROR_SECRET_ACCESS_KEY")),
		PathStyle:       mc.PathStyle,
	})
	if err != nil {
		return nil, err
	}
	logger.Printf("mirroring snapshots to bucket %s", mc.Bucket)
	return r2s3.NewMirror(client, st.SnapshotDir, mc.Prefix, mc.Workers, logger), nil
}
