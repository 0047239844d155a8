// Package website deploys static site content to an Azure storage account's
// $web container.
package website

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/storage/armstorage"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/rs/zerolog"

	"github.com/JustAGhosT/home-lab-setup-sub006/azure"
	"github.com/JustAGhosT/home-lab-setup-sub006/config"
)

// webContainer is the well-known static website container name.
const webContainer = "$web"

// Deployer provisions the storage account and uploads site content.
type Deployer struct {
	clients *azure.Clients
	cfg     config.Config
	logger  zerolog.Logger
}

// NewDeployer creates a deployer.
func NewDeployer(clients *azure.Clients, cfg config.Config, logger zerolog.Logger) *Deployer {
	return &Deployer{clients: clients, cfg: cfg, logger: logger}
}

// EnsureAccount creates the storage account if needed and waits for it.
func (d *Deployer) EnsureAccount(ctx context.Context, account string) error {
	poller, err := d.clients.Accounts.BeginCreate(ctx, d.cfg.ResourceGroup, account, armstorage.AccountCreateParameters{
		Location: ptr(d.cfg.Location),
		Kind:     ptr(armstorage.KindStorageV2),
		SKU: &armstorage.SKU{
			Name: ptr(armstorage.SKUNameStandardLRS),
		},
		Tags: d.cfg.Tags(),
	}, nil)
	if err != nil {
		return fmt.Errorf("create storage account %s: %w", account, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("create storage account %s: %w", account, err)
	}
	d.logger.Info().Str("account", account).Msg("storage account ready")
	return nil
}

// Upload walks dir and uploads every regular file into the $web container,
// preserving relative paths and setting content types by extension. Returns
// the number of files uploaded.
func (d *Deployer) Upload(ctx context.Context, account, dir string) (int, error) {
	client, err := d.blobClient(account)
	if err != nil {
		return 0, err
	}

	uploaded := 0
	err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		blobName := filepath.ToSlash(rel)

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		contentType := mime.TypeByExtension(filepath.Ext(path))
		var headers *blob.HTTPHeaders
		if contentType != "" {
			headers = &blob.HTTPHeaders{BlobContentType: ptr(contentType)}
		}

		if _, err := client.UploadFile(ctx, webContainer, blobName, f, &azblob.UploadFileOptions{
			HTTPHeaders: headers,
		}); err != nil {
			return fmt.Errorf("upload %s: %w", blobName, err)
		}

		d.logger.Debug().Str("blob", blobName).Str("content_type", contentType).Msg("uploaded")
		uploaded++
		return nil
	})
	if err != nil {
		return uploaded, err
	}

	d.logger.Info().Str("account", account).Int("files", uploaded).Msg("site uploaded")
	return uploaded, nil
}

func (d *Deployer) blobClient(account string) (*azblob.Client, error) {
	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net", account)
	if d.cfg.EndpointURL != "" {
		serviceURL = strings.TrimRight(d.cfg.EndpointURL, "/") + "/" + account
	}
	return azblob.NewClient(serviceURL, d.clients.Credential, nil)
}

func ptr[T any](v T) *T { return &v }
