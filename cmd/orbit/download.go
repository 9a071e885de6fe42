package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/ProtonMail/gopenpgp/v2/crypto"
	"github.com/orbit-updates/orbit/internal/build"
	"github.com/orbit-updates/orbit/internal/patch"
	"github.com/orbit-updates/orbit/internal/updates"
	"github.com/spf13/cobra"
)

var (
	downloadBuildFlag       string
	downloadFingerprintFlag string
	downloadKeyURLFlag      string
)

var downloadCmd = &cobra.Command{
	Use:   "download <build>",
	Short: "Download and verify the patch for a build",
	Long: `Fetch the binary patch transforming the local build into the given
target build, verifying its checksum, its detached PGP signature when
the descriptor ships one, and the integrity of the compression
container before handing it over.

Examples:
  orbit download 146.283
  orbit download OB-146.283 --key-fingerprint D53626F8174A9846F6A573CC1253FA47EA19E301 \
      --key-url https://updates.orbit.dev/releases.asc`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		env, err := newCheckEnv(downloadBuildFlag)
		if err != nil {
			printError(err)
			exitWithCode(ExitGeneral)
		}

		target, err := build.Parse(args[0])
		if err != nil {
			printError(fmt.Errorf("invalid target build %q: %w", args[0], err))
			exitWithCode(ExitUsage)
		}

		path, err := downloadPatch(cmd.Context(), env, target)
		if err != nil {
			printError(err)
			exitWithCode(downloadExitCode(err))
		}
		printInfof("Patch verified: %s\n", path)
	},
}

func downloadPatch(ctx context.Context, env *checkEnv, target build.Number) (string, error) {
	checker := updates.NewChecker(env.settings.PlatformURL, env.client, env.logger)
	doc, err := checker.Fetch(ctx)
	if err != nil {
		return "", err
	}

	entry := findBuild(doc, target)
	if entry == nil {
		return "", &notFoundError{fmt.Sprintf("build %s not found in the update descriptor", target)}
	}
	p := entry.PatchFrom(env.build)
	if p == nil {
		return "", &notFoundError{fmt.Sprintf("no patch from %s to %s; a full reinstall is required", env.build, target)}
	}

	var signingKey *crypto.Key
	if p.SignatureURL != "" {
		if downloadFingerprintFlag == "" || downloadKeyURLFlag == "" {
			return "", fmt.Errorf("patch is signed: pass --key-fingerprint and --key-url to verify")
		}
		keys := patch.NewKeyCache(env.cfg.KeyCacheDir, env.client)
		signingKey, err = keys.Get(ctx, downloadFingerprintFlag, downloadKeyURLFlag)
		if err != nil {
			return "", err
		}
	}

	fetcher := patch.NewFetcher(env.cfg.PatchCacheDir, env.client, env.logger)
	return fetcher.Fetch(ctx, *p, signingKey)
}

// findBuild locates the build entry across all products and channels.
func findBuild(doc *updates.Document, target build.Number) *updates.BuildEntry {
	for _, product := range doc.Products {
		for i := range product.Channels {
			channel := &product.Channels[i]
			for j := range channel.Builds {
				if channel.Builds[j].Number.Compare(target) == 0 {
					return &channel.Builds[j]
				}
			}
		}
	}
	return nil
}

type notFoundError struct{ msg string }

func (e *notFoundError) Error() string { return e.msg }

func downloadExitCode(err error) int {
	if _, ok := err.(*notFoundError); ok {
		return ExitNotFound
	}
	var checkErr *updates.CheckError
	if errors.As(err, &checkErr) {
		return ExitNetwork
	}
	return ExitVerifyFailed
}

func init() {
	downloadCmd.Flags().StringVar(&downloadBuildFlag, "build", "", "local build number (overrides the configured one)")
	downloadCmd.Flags().StringVar(&downloadFingerprintFlag, "key-fingerprint", "", "expected fingerprint of the patch signing key")
	downloadCmd.Flags().StringVar(&downloadKeyURLFlag, "key-url", "", "URL of the armored patch signing key")
	rootCmd.AddCommand(downloadCmd)
}
