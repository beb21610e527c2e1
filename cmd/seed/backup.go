package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/andresuchdata/salescast/internal/bootstrap"
	"github.com/andresuchdata/salescast/internal/cache"
	"github.com/andresuchdata/salescast/internal/storage"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const backupRoot = "backups/"

func backupCommand() *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Copy both collections to S3-compatible object storage",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "Object key prefix (default backups/<UTC timestamp>)",
			},
			&cli.BoolFlag{
				Name:  "list",
				Usage: "List existing backup prefixes instead of writing a new one",
			},
		},
		Action: func(c *cli.Context) error {
			res, err := resources(c)
			if err != nil {
				return err
			}
			cfg := loadedConfig(c)

			objects, err := bootstrap.NewObjectStorage(cfg.ObjectStore)
			if err != nil {
				return err
			}

			if c.Bool("list") {
				prefixes, err := listBackupPrefixes(c.Context, objects, backupRoot)
				if err != nil {
					return err
				}
				for _, p := range prefixes {
					fmt.Fprintln(c.App.Writer, p)
				}
				return nil
			}

			prefix := c.String("prefix")
			if prefix == "" {
				prefix = backupRoot + time.Now().UTC().Format("20060102T150405Z")
			}

			keys, err := backupCollections(c.Context, res.Blobs, objects, prefix,
				cfg.Store.SalesCollection, cfg.Store.ProductsCollection)
			if err != nil {
				return err
			}
			for _, key := range keys {
				fmt.Fprintln(c.App.Writer, key)
			}
			return nil
		},
	}
}

// backupCollections uploads each named blob as <prefix>/<name>.json and returns
// the written keys. Collections that were never written are skipped.
func backupCollections(ctx context.Context, blobs storage.BlobStore, objects storage.ObjectStorage, prefix string, names ...string) ([]string, error) {
	var keys []string
	for _, name := range names {
		data, err := blobs.Get(ctx, name)
		if errors.Is(err, storage.ErrNotExist) {
			log.Warn().Str("collection", name).Msg("Collection is empty, skipping backup")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}

		key := resolveObjectKey(prefix, name+".json")
		if err := objects.UploadObject(ctx, key, data); err != nil {
			return nil, err
		}
		log.Info().Str("collection", name).Str("key", key).Int("bytes", len(data)).Msg("Collection backed up")
		keys = append(keys, key)
	}
	return keys, nil
}

func restoreCommand() *cli.Command {
	return &cli.Command{
		Name:  "restore",
		Usage: "Load both collections back from object storage",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "prefix",
				Usage: "Backup prefix to restore (default: latest under backups/)",
			},
		},
		Action: func(c *cli.Context) error {
			res, err := resources(c)
			if err != nil {
				return err
			}
			cfg := loadedConfig(c)

			objects, err := bootstrap.NewObjectStorage(cfg.ObjectStore)
			if err != nil {
				return err
			}

			prefix := c.String("prefix")
			if prefix == "" {
				prefixes, err := listBackupPrefixes(c.Context, objects, backupRoot)
				if err != nil {
					return err
				}
				if len(prefixes) == 0 {
					return fmt.Errorf("no backups found under %s", backupRoot)
				}
				prefix = prefixes[len(prefixes)-1]
			}

			restored, err := restoreCollections(c.Context, objects, res.Blobs, res.Locker, prefix,
				cfg.Store.SalesCollection, cfg.Store.ProductsCollection)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "restored %s from %s\n", strings.Join(restored, ", "), prefix)
			return nil
		},
	}
}

// listBackupPrefixes returns the distinct "directories" directly holding
// objects under root, sorted oldest first for timestamped prefixes.
func listBackupPrefixes(ctx context.Context, objects storage.ObjectStorage, root string) ([]string, error) {
	infos, err := objects.ListObjects(ctx, root)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var prefixes []string
	for _, info := range infos {
		i := strings.LastIndex(info.Key, "/")
		if i <= 0 || !strings.HasSuffix(info.Key, ".json") {
			continue
		}
		prefix := info.Key[:i]
		if _, ok := seen[prefix]; ok {
			continue
		}
		seen[prefix] = struct{}{}
		prefixes = append(prefixes, prefix)
	}

	sort.Strings(prefixes)
	return prefixes, nil
}

// restoreCollections copies <prefix>/<name>.json back into blobs under each
// collection lock. Missing objects are skipped; malformed ones abort.
func restoreCollections(ctx context.Context, objects storage.ObjectStorage, blobs storage.BlobStore, locker cache.Locker, prefix string, names ...string) ([]string, error) {
	var restored []string
	for _, name := range names {
		key := resolveObjectKey(prefix, name+".json")
		data, err := objects.GetObject(ctx, key)
		if errors.Is(err, storage.ErrNotExist) {
			log.Warn().Str("key", key).Msg("Backup object missing, skipping")
			continue
		}
		if err != nil {
			return nil, err
		}
		if !json.Valid(data) {
			return nil, fmt.Errorf("backup object %s is not valid JSON", key)
		}

		err = locker.WithLock(ctx, name, func(ctx context.Context) error {
			return blobs.Put(ctx, name, data)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to restore %s: %w", name, err)
		}
		log.Info().Str("collection", name).Str("key", key).Msg("Collection restored")
		restored = append(restored, name)
	}
	return restored, nil
}

func resolveObjectKey(prefix, name string) string {
	prefixTrimmed := strings.Trim(strings.TrimSpace(prefix), "/")
	nameTrimmed := strings.TrimPrefix(strings.TrimSpace(name), "/")
	if prefixTrimmed == "" {
		return nameTrimmed
	}
	return fmt.Sprintf("%s/%s", prefixTrimmed, nameTrimmed)
}
