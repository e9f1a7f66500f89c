package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/GoTitans/titangate/internal/credential"
)

// keytool mints API keys for out-of-band provisioning. Only the digest
// goes into the directory; the clear key is shown once, here.
func main() {
	n := flag.Int("n", 1, "number of keys to generate")
	digestOnly := flag.String("digest", "", "print the digest of an existing key instead")
	flag.Parse()

	if *digestOnly != "" {
		fmt.Println(credential.Digest(*digestOnly))
		return
	}

	for i := 0; i < *n; i++ {
		key, err := credential.Generate()
		if err != nil {
			fmt.Fprintf(os.Stderr, "generate: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("key:    %s\ndigest: %s\n", key, credential.Digest(key))
	}
}
