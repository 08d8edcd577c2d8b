package validation

import (
	"errors"
	"regexp"
)

var (
	addressRegex = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)
	hashRegex    = regexp.MustCompile(`^0x[a-fA-F0-9]{64}$`)
	numberRegex  = regexp.MustCompile(`^\d+$`)
	urlRegex     = regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)
)

// ValidateAddress validates an account or contract address
func ValidateAddress(address string) error {
	if address == "" {
		return errors.New("address cannot be empty")
	}
	if !addressRegex.MatchString(address) {
		return errors.New("invalid address format")
	}
	return nil
}

// ValidateTxHash validates transaction hash format
func ValidateTxHash(txHash string) error {
	if txHash == "" {
		return errors.New("transaction hash cannot be empty")
	}
	if !hashRegex.MatchString(txHash) {
		return errors.New("invalid transaction hash format")
	}
	return nil
}

// ValidateBlockID accepts a decimal block number or a 0x-prefixed block hash
func ValidateBlockID(id string) error {
	if id == "" {
		return errors.New("block id cannot be empty")
	}
	if !numberRegex.MatchString(id) && !hashRegex.MatchString(id) {
		return errors.New("block id must be a number or a block hash")
	}
	return nil
}

// ValidateURL validates URL format
func ValidateURL(url string) error {
	if url == "" {
		return errors.New("URL cannot be empty")
	}

	if !urlRegex.MatchString(url) {
		return errors.New("invalid URL format")
	}

	return nil
}
