package handler

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/senderkeys/internal/model"
)

func handleError(err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, "sender key not found")
	case errors.Is(err, model.ErrInvalidIdentity),
		errors.Is(err, model.ErrEmptyRecord),
		errors.Is(err, model.ErrRecordTooLarge):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrNotAuthenticated):
		return status.Error(codes.Unauthenticated, "authentication required")
	case errors.Is(err, model.ErrDeserialization):
		return status.Error(codes.DataLoss, "sender key backup is corrupted")
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
