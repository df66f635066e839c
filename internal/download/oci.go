package download

import (
	"context"
	"strings"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	v1 "github.com/google/go-containerregistry/pkg/v1"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/rs/zerolog/log"

	"github.com/hoardpkg/hoard/util/common/errors"
)

const ociTitleAnnotation = "org.opencontainers.image.title"

// DownloadOCI pulls an artifact published as an OCI image (ghcr.io and
// friends) and writes its payload layer to disk. The payload layer is the
// one carrying a title annotation; when no layer is annotated the largest
// layer wins.
func (d *Downloader) DownloadOCI(ctx context.Context, opts Options) (string, error) {
	rawRef := strings.TrimPrefix(opts.URL, "oci://")

	ref, err := name.ParseReference(rawRef)
	if err != nil {
		return "", errors.NewParseError(opts.URL, err.Error())
	}

	img, err := remote.Image(ref,
		remote.WithContext(ctx),
		remote.WithUserAgent("hoard"),
		remote.WithAuthFromKeychain(authn.DefaultKeychain),
	)
	if err != nil {
		return "", errors.NewNetworkError(opts.URL, 0, err)
	}

	manifest, err := img.Manifest()
	if err != nil {
		return "", errors.NewNetworkError(opts.URL, 0, err)
	}
	if len(manifest.Layers) == 0 {
		return "", errors.NewParseError(opts.URL, "manifest has no layers")
	}

	desc := pickPayloadLayer(manifest.Layers)

	layer, err := img.LayerByDigest(desc.Digest)
	if err != nil {
		return "", errors.NewNetworkError(opts.URL, 0, err)
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		if title := desc.Annotations[ociTitleAnnotation]; title != "" {
			outputPath = title
		} else {
			outputPath = OutputName(ref.Context().RepositoryStr())
		}
	}

	log.Debug().
		Str("reference", ref.Name()).
		Str("digest", desc.Digest.String()).
		Str("output", outputPath).
		Msg("Pulling OCI layer")

	rc, err := layer.Compressed()
	if err != nil {
		return "", errors.NewNetworkError(opts.URL, 0, err)
	}
	defer rc.Close()

	if err := writeStream(rc, outputPath, desc.Size, opts.ProgressCallback); err != nil {
		return "", err
	}
	return outputPath, nil
}

func pickPayloadLayer(layers []v1.Descriptor) v1.Descriptor {
	best := layers[0]
	for _, l := range layers {
		if l.Annotations[ociTitleAnnotation] != "" {
			return l
		}
		if l.Size > best.Size {
			best = l
		}
	}
	return best
}
