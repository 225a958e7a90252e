package client

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/getzep/corenlp/pkg/composer"
	"github.com/getzep/corenlp/pkg/models"
)

// Server flags passed through from Args and Kwargs, in command line order.
var (
	booleanFlags = []string{"ssl", "strict"}
	keyedFlags   = []string{"status_port", "uriContext", "key", "username", "password", "blacklist", "server_id"}
)

// minPatternVersion is the first release whose pattern endpoints answer
// without a preceding annotate call.
const minPatternVersion = "4.0.0"

var jarVersion = regexp.MustCompile(`^stanford-corenlp-(\d+\.\d+\.\d+)\.jar$`)

// resolveClassPath expands $CLASSPATH (%CLASSPATH% on Windows) and falls back
// to $CORENLP_HOME when no class path is configured. The result names every
// jar in the directory.
func resolveClassPath(classPath string) (string, error) {
	ref := "$CLASSPATH"
	if runtime.GOOS == "windows" {
		ref = "%CLASSPATH%"
	}

	if strings.EqualFold(classPath, ref) {
		classPath = os.Getenv("CLASSPATH")
	}
	if classPath == "" {
		classPath = os.Getenv("CORENLP_HOME")
	}
	if classPath == "" {
		return "", models.NewConfigError("no class path configured and CORENLP_HOME is not set")
	}
	return strings.TrimRight(classPath, `/\`) + string(os.PathSeparator) + "*", nil
}

// withURIContext makes the endpoint path and the -uriContext option of a
// launched server agree. Whichever one is set fills in the other.
func withURIContext(endpoint models.ServerEndpoint, lc *launchConfig) (models.ServerEndpoint, error) {
	for k, v := range lc.Kwargs {
		if !strings.EqualFold(k, "uriContext") {
			continue
		}
		uriContext := models.NormalizeURIContext(v)
		switch {
		case endpoint.Path == "":
			endpoint.Path = uriContext
		case endpoint.Path != uriContext:
			return endpoint, models.NewConfigError(
				"uriContext %q does not match the path of endpoint %s", v, endpoint,
			)
		}
		lc.Kwargs[k] = uriContext
		return endpoint, nil
	}

	if endpoint.Path != "" {
		if lc.Kwargs == nil {
			lc.Kwargs = make(map[string]string, 1)
		}
		lc.Kwargs["uriContext"] = endpoint.Path
	}
	return endpoint, nil
}

type launchCommand struct {
	Binary    string
	Args      []string
	ClassPath string
}

// buildCommand assembles the java command line that starts the server.
func buildCommand(
	lc launchConfig,
	endpoint models.ServerEndpoint,
	sp *composer.ServerProperties,
) (*launchCommand, error) {
	classPath, err := resolveClassPath(lc.ClassPath)
	if err != nil {
		return nil, err
	}

	args := []string{
		"-Xmx" + lc.Memory,
		"-cp", classPath,
		models.ServerMainClass,
		"-port", strconv.Itoa(endpoint.Port),
		"-timeout", strconv.FormatInt(lc.Timeout.Milliseconds(), 10),
		"-threads", strconv.Itoa(lc.Threads),
		"-maxCharLength", strconv.Itoa(lc.MaxCharLength),
		"-quiet", strconv.FormatBool(lc.Quiet),
		"-serverProperties", sp.Path,
	}

	if !lc.DisablePreload && sp.PreloadAnnotators != "" {
		args = append(args, "-preload", sp.PreloadAnnotators)
	}

	for _, arg := range lc.Args {
		if !contains(booleanFlags, arg) {
			log.Warnf("ignoring unknown server flag %q", arg)
		}
	}
	for _, flag := range booleanFlags {
		if contains(lc.Args, flag) {
			args = append(args, "-"+flag)
		}
	}

	// keys are matched case-insensitively, config loaders lowercase them
	kwargs := make(map[string]string, len(lc.Kwargs))
	for k, v := range lc.Kwargs {
		if !containsFold(keyedFlags, k) {
			log.Warnf("ignoring unknown server option %q", k)
			continue
		}
		kwargs[strings.ToLower(k)] = v
	}
	for _, flag := range keyedFlags {
		if v, ok := kwargs[strings.ToLower(flag)]; ok {
			args = append(args, "-"+flag, v)
		}
	}

	return &launchCommand{Binary: lc.JavaBinary, Args: args, ClassPath: classPath}, nil
}

// detectVersion looks for stanford-corenlp-<version>.jar in the class path
// directory and returns the newest one found, or nil.
func detectVersion(classPath string) *semver.Version {
	dir := strings.TrimSuffix(classPath, string(os.PathSeparator)+"*")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var newest *semver.Version
	for _, e := range entries {
		m := jarVersion.FindStringSubmatch(filepath.Base(e.Name()))
		if m == nil {
			continue
		}
		v, err := semver.NewVersion(m[1])
		if err != nil {
			continue
		}
		if newest == nil || v.GreaterThan(newest) {
			newest = v
		}
	}
	return newest
}

func checkVersion(v *semver.Version) {
	if v == nil {
		log.Debug("could not determine the CoreNLP version from the class path")
		return
	}
	required, err := semver.NewVersion(minPatternVersion)
	if err != nil {
		return
	}
	if required.GreaterThan(v) {
		log.Warnf("CoreNLP %s is older than %s; pattern requests may time out", v, minPatternVersion)
		return
	}
	log.Infof("found CoreNLP %s on the class path", v)
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
