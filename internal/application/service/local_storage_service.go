package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gitactdash/internal/domain/storage"
	"gitactdash/internal/logging"
	"gitactdash/internal/result"
)

const localStorageServiceName = "LocalStorageService"

// MessageInteropUnavailable is the failure reported when storage is used
// before the browser client has been identified
const MessageInteropUnavailable = "Client storage is not available before the browser client has been identified. Please retry the request once the client cookie has been set."

const messageBlankKey = "Key cannot be null or empty."

// LocalStorageService stores per-browser key/value pairs. The calling client
// comes from the request context (see storage.WithClientID).
type LocalStorageService struct {
	bridge storage.Bridge
}

// NewLocalStorageService creates a new local storage service
func NewLocalStorageService(bridge storage.Bridge) *LocalStorageService {
	return &LocalStorageService{bridge: bridge}
}

// IsAvailable reports whether storage can be used for the calling client
func (s *LocalStorageService) IsAvailable(ctx context.Context) bool {
	_, ok := storage.ClientIDFromContext(ctx)
	return ok
}

// SetItem stores value under key
func (s *LocalStorageService) SetItem(ctx context.Context, key, value string) result.Void {
	ctx, log := logging.ForServiceOperation(ctx, localStorageServiceName, "SetItem")

	clientID, failure := s.prepare(ctx, key)
	if failure != "" {
		return result.Fail(failure)
	}

	log.WithField("key", key).Debug("Setting item")
	if err := s.bridge.SetItem(ctx, clientID, key, value); err != nil {
		return result.Fail(s.callFailure(ctx, err, "setting", key))
	}
	return result.Ok()
}

// GetItem returns the value under key, or nil when the key is absent
func (s *LocalStorageService) GetItem(ctx context.Context, key string) result.Result[*string] {
	ctx, log := logging.ForServiceOperation(ctx, localStorageServiceName, "GetItem")

	clientID, failure := s.prepare(ctx, key)
	if failure != "" {
		return result.Failure[*string](failure)
	}

	log.WithField("key", key).Debug("Getting item")
	value, found, err := s.bridge.GetItem(ctx, clientID, key)
	if err != nil {
		return result.Failure[*string](s.callFailure(ctx, err, "getting", key))
	}
	if !found {
		return result.Success[*string](nil)
	}
	return result.Success(&value)
}

// RemoveItem deletes key
func (s *LocalStorageService) RemoveItem(ctx context.Context, key string) result.Void {
	ctx, log := logging.ForServiceOperation(ctx, localStorageServiceName, "RemoveItem")

	clientID, failure := s.prepare(ctx, key)
	if failure != "" {
		return result.Fail(failure)
	}

	log.WithField("key", key).Debug("Removing item")
	if err := s.bridge.RemoveItem(ctx, clientID, key); err != nil {
		return result.Fail(s.callFailure(ctx, err, "removing", key))
	}
	return result.Ok()
}

// Clear deletes every key of the calling client
func (s *LocalStorageService) Clear(ctx context.Context) result.Void {
	ctx, log := logging.ForServiceOperation(ctx, localStorageServiceName, "Clear")

	clientID, ok := storage.ClientIDFromContext(ctx)
	if !ok {
		log.Warn("Client not identified, cannot clear storage")
		return result.Fail(MessageInteropUnavailable)
	}
	if ctx.Err() != nil {
		return result.Fail("Operation was cancelled while clearing items.")
	}

	if err := s.bridge.Clear(ctx, clientID); err != nil {
		if isCancellation(ctx, err) {
			return result.Fail("Operation was cancelled while clearing items.")
		}
		log.WithError(err).Error("Storage error while clearing items")
		return result.Fail("Storage error while clearing items: " + err.Error())
	}
	return result.Ok()
}

// SetJSON stores value serialized as JSON
func SetJSON[T any](ctx context.Context, s *LocalStorageService, key string, value T) result.Void {
	data, err := json.Marshal(value)
	if err != nil {
		return result.Fail(fmt.Sprintf("Failed to serialize object for storage key '%s': %v", key, err))
	}
	return s.SetItem(ctx, key, string(data))
}

const deserializeFailurePrefix = "Failed to deserialize JSON for storage key"

// IsDeserializeFailure reports whether message is the failure GetJSON returns
// for a stored value that is not valid JSON for the requested type
func IsDeserializeFailure(message string) bool {
	return strings.HasPrefix(message, deserializeFailurePrefix)
}

// GetJSON loads and decodes the JSON stored under key. The value is nil when
// the key is absent.
func GetJSON[T any](ctx context.Context, s *LocalStorageService, key string) result.Result[*T] {
	return result.Bind(s.GetItem(ctx, key), func(raw *string) result.Result[*T] {
		if raw == nil {
			return result.Success[*T](nil)
		}
		value := new(T)
		if err := json.Unmarshal([]byte(*raw), value); err != nil {
			return result.Failure[*T](fmt.Sprintf("%s '%s': %v", deserializeFailurePrefix, key, err))
		}
		return result.Success(value)
	})
}

// prepare validates key and resolves the client, returning a failure message
// when the call cannot proceed
func (s *LocalStorageService) prepare(ctx context.Context, key string) (clientID, failure string) {
	log := logging.FromContext(ctx)

	if strings.TrimSpace(key) == "" {
		log.Warn("Attempted to use storage with null or empty key")
		return "", messageBlankKey
	}

	clientID, ok := storage.ClientIDFromContext(ctx)
	if !ok {
		log.WithField("key", key).Warn("Client not identified, storage unavailable")
		return "", MessageInteropUnavailable
	}
	return clientID, ""
}

func (s *LocalStorageService) callFailure(ctx context.Context, err error, verb, key string) string {
	log := logging.FromContext(ctx).WithField("key", key)
	if isCancellation(ctx, err) {
		log.Warn("Operation was cancelled")
		return fmt.Sprintf("Operation was cancelled while %s item '%s'.", verb, key)
	}
	log.WithError(err).Error("Storage error")
	return fmt.Sprintf("Storage error while %s item '%s': %v", verb, key, err)
}

func isCancellation(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
