package admission

import (
	"fmt"
	"strconv"
	"strings"
)

// payloadPrefix marks invoice payloads issued by this bot. Payments whose
// payload does not carry it are unrelated and must be ignored.
const payloadPrefix = "JOIN_REQUEST"

// EncodePayload builds the invoice payload correlating a payment back to the
// originating join request. It embeds both the channel and the user so a
// payment arriving after a restart can rebuild the record on its own.
func EncodePayload(resourceID, userID int64) string {
	return fmt.Sprintf("%s_%d_%d", payloadPrefix, resourceID, userID)
}

// DecodePayload extracts the channel and user from an invoice payload.
// Returns ErrInvalidPayload for anything not produced by EncodePayload.
func DecodePayload(payload string) (resourceID, userID int64, err error) {
	rest, ok := strings.CutPrefix(payload, payloadPrefix+"_")
	if !ok {
		return 0, 0, ErrInvalidPayload
	}

	// The channel ID is negative for channels, so split on the last separator.
	idx := strings.LastIndex(rest, "_")
	if idx <= 0 || idx == len(rest)-1 {
		return 0, 0, ErrInvalidPayload
	}

	resourceID, err = strconv.ParseInt(rest[:idx], 10, 64)
	if err != nil {
		return 0, 0, ErrInvalidPayload
	}
	userID, err = strconv.ParseInt(rest[idx+1:], 10, 64)
	if err != nil || userID == 0 {
		return 0, 0, ErrInvalidPayload
	}

	return resourceID, userID, nil
}
