// Package brewerydb provides a client for the BreweryDB REST API.
//
// Every endpoint method shapes its arguments and hands them to a single
// request pipeline which injects the API key and format, drops empty values,
// builds the request URI, performs an HTTP GET and decodes the JSON body.
// Responses are returned as decoded JSON (map[string]any, []any, ...);
// DecodeLast decodes the same body into the typed models of this package.
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := brewerydb.NewClient("your-api-key", logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	if _, err := client.GetBrewery(ctx, 42, true); err != nil {
//		log.Fatal(err)
//	}
//
//	var brewery brewerydb.BreweryResponse
//	if err := client.DecodeLast(&brewery); err != nil {
//		log.Fatal(err)
//	}
//
// # Error Handling
//
//   - ValidationError: invalid arguments, returned before any request is built
//   - TransportError: the GET request failed
//   - ServiceError: the body carried an {"error":{"message":...}} envelope
//
// The HTTP status code is never consulted; the API reports errors in the body.
// A body that is not valid JSON is not an error: the parsed response is nil.
//
//	var svcErr *brewerydb.ServiceError
//	if errors.As(err, &svcErr) {
//		fmt.Println(svcErr.Message)
//	}
//
// # TLS
//
// Certificate verification is disabled by default. Use WithTLSVerify to
// enable it, or WithHTTPClient to supply a fully configured client.
//
// # Concurrency
//
// A Client records the URI, raw body and parsed body of its last call and is
// not safe for concurrent use. Create one Client per goroutine.
package brewerydb
