package protocol

import "github.com/sisu-network/dvault/types"

// LatestMetadataVersion is the only metadata version this protocol release
// understands on send-with-data calls.
const LatestMetadataVersion uint32 = 0

// CheckMetadataVersion rejects unsupported metadata tags before any custody
// is touched.
func CheckMetadataVersion(version uint32) error {
	if version != LatestMetadataVersion {
		return types.ErrInvalidMetadataVersion
	}
	return nil
}
