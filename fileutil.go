package tex2html

import "github.com/alnah/go-tex2html/internal/fileutil"

// writeTempFile creates a temporary file with the given content and
// extension, returning the path and a cleanup function.
func writeTempFile(content, extension string) (string, func(), error) {
	return fileutil.WriteTempFile(content, extension)
}
