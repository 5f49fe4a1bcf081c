package converter

// Version of sessionport.
// This variable can be overridden at build time using:
//
//	go build -ldflags "-X github.com/sessionport/sessionport/converter.Version=v1.0.0"
var Version = "dev"
