package cli

import (
	"errors"
	"io"
	"strings"
)

var errNoTerminal = errors.New("stdin unavailable")

// readSecretLine reads one line without the trailing newline. It reads byte
// by byte so a second prompt on the same pipe still sees its line. An empty
// read at EOF is an error so a closed pipe does not become an empty password.
func readSecretLine(reader io.Reader) ([]byte, error) {
	var line []byte
	buffer := make([]byte, 1)
	for {
		read, err := reader.Read(buffer)
		if read == 1 {
			if buffer[0] == '\n' {
				break
			}
			line = append(line, buffer[0])
		}
		if errors.Is(err, io.EOF) {
			if len(line) == 0 {
				return nil, io.ErrUnexpectedEOF
			}
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return []byte(strings.TrimRight(string(line), "\r")), nil
}
