package install

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pterm/pterm"

	"github.com/hoardpkg/hoard/internal/registry"
	"github.com/hoardpkg/hoard/internal/tui"
	"github.com/hoardpkg/hoard/util/common"
	"github.com/hoardpkg/hoard/util/common/errors"
)

// largeLogThreshold is the size above which fetching a build log asks for
// confirmation first.
const largeLogThreshold = 1 << 20

// InspectBuildLog fetches and prints the build log of a resolved package.
// Logs above the threshold require confirmation unless assumeYes is set.
func InspectBuildLog(ctx context.Context, client *retryablehttp.Client, storage *registry.PackageStorage, packageName string, assumeYes bool) error {
	rp, err := storage.ResolvePackage(packageName)
	if err != nil {
		return err
	}

	logURL := rp.Package.BuildLog
	if logURL == "" {
		return errors.NewPackageError("inspect", rp.Package.Name, rp.Package.Variant, errors.ErrPackageNotFound)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, logURL, nil)
	if err != nil {
		return errors.NewParseError(logURL, err.Error())
	}

	resp, err := client.Do(req)
	if err != nil {
		return errors.NewNetworkError(logURL, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.NewNetworkError(logURL, resp.StatusCode, nil)
	}

	if resp.ContentLength > largeLogThreshold && !assumeYes {
		ok, err := tui.Confirm(
			fmt.Sprintf("The log file is large (%s)", common.GetSize(resp.ContentLength)),
			"Download and view it anyway?",
		)
		if err != nil {
			return err
		}
		if !ok {
			return errors.ErrUserAborted
		}
	}

	pterm.Info.Println(fmt.Sprintf("Fetching log from %s (%s)", logURL, common.GetSize(resp.ContentLength)))

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewNetworkError(logURL, 0, err)
	}

	fmt.Println(strings.ReplaceAll(string(content), "\r", "\n"))
	return nil
}
