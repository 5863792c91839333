package proxy

import (
	"fmt"
	"strings"
)

// HttpMethod is an enum of the standard Http Methods.
type HttpMethod int

const (
	GET HttpMethod = iota
	HEAD
	POST
	PUT
	DELETE
	CONNECT
	OPTIONS
	TRACE
	PATCH
)

var methodNames = [...]string{"GET", "HEAD", "POST", "PUT", "DELETE", "CONNECT", "OPTIONS", "TRACE", "PATCH"}

// Methods lists every HttpMethod in declaration order.
var Methods = []HttpMethod{GET, HEAD, POST, PUT, DELETE, CONNECT, OPTIONS, TRACE, PATCH}

// String returns the upper case wire name of the method.
func (m HttpMethod) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("HttpMethod(%d)", int(m))
	}

	return methodNames[m]
}

// ParseHttpMethod returns the HttpMethod matching name, ignoring case.
func ParseHttpMethod(name string) (HttpMethod, error) {
	for i, n := range methodNames {
		if strings.EqualFold(n, name) {
			return HttpMethod(i), nil
		}
	}

	return 0, fmt.Errorf("unknown http method '%s'", name)
}
