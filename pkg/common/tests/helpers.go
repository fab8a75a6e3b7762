package tests

import (
	"encoding/json"
	"fmt"
	randv2 "math/rand/v2"
)

// ValidAnswer is accepted by fake verify endpoints in tests
const ValidAnswer = "gatekeeper"

func GenerateRandomIPv4() string {
	// Generate a random 32-bit integer
	ipInt := randv2.Uint32()
	// Extract each byte and format as IP address
	return fmt.Sprintf("%d.%d.%d.%d",
		(ipInt>>24)&0xFF,
		(ipInt>>16)&0xFF,
		(ipInt>>8)&0xFF,
		ipInt&0xFF)
}

// RecaptchaBody builds the JSON body a browser posts after solving the widget
func RecaptchaBody(challenge, response string) string {
	data, _ := json.Marshal(map[string]map[string]string{
		"recaptcha": {
			"challenge": challenge,
			"response":  response,
		},
	})

	return string(data)
}
