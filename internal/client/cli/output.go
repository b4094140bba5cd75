package cli

import (
	"fmt"
	"sync"

	"github.com/dmitrijs2005/jwtclient/internal/client/client"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// outMu serializes lines printed by the prompt and by worker callbacks.
var outMu sync.Mutex

func say(a ...any) {
	outMu.Lock()
	defer outMu.Unlock()
	_, _ = printlnFn(a...)
}

func fail(action string, err error) {
	say(fmt.Sprintf("%s failed (%s): %v", action, client.Describe(err), err))
}
