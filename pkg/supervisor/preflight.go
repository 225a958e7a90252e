package supervisor

import (
	"fmt"
	"net"
)

// checkPortFree binds address exclusively and releases it straight away.
// An error means something else already listens there.
func checkPortFree(address string) error {
	ln, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("port check on %s: %w", address, err)
	}
	return ln.Close()
}
