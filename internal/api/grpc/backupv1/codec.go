package backupv1

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content subtype of the backup service.
const CodecName = "json"

// Codec marshals backup messages as JSON.
type Codec struct{}

func init() {
	encoding.RegisterCodec(Codec{})
}

func (Codec) Name() string {
	return CodecName
}

func (Codec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", v, err)
	}
	return b, nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", v, err)
	}
	return nil
}
