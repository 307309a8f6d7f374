package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"aqua_project/internal/constants"
	"aqua_project/internal/domain"
	"aqua_project/internal/repository"
	"aqua_project/pkg/logger"
)

// Dispatcher feeds the in-app notification list and, for critical
// alerts, fans out to the external gateways enabled in the target user's
// preferences. Fan-out is fire-and-forget from the caller's perspective:
// it runs concurrently, each channel is isolated, failures are logged and
// never retried.
type Dispatcher struct {
	feed     *Feed
	prefs    repository.PreferenceStore
	gateways GatewaySet
	wg       sync.WaitGroup
}

// NewDispatcher creates a dispatcher around an existing feed
func NewDispatcher(feed *Feed, prefs repository.PreferenceStore, gateways GatewaySet) *Dispatcher {
	return &Dispatcher{
		feed:     feed,
		prefs:    prefs,
		gateways: gateways,
	}
}

// Feed returns the in-app notification feed
func (d *Dispatcher) Feed() *Feed {
	return d.feed
}

// Dispatch stores the notification in the feed and, when the level is
// critical, launches the external fan-out. Returns the stored entity
// without waiting for any channel call.
func (d *Dispatcher) Dispatch(ownerID string, in AlertInput) domain.Notification {
	n := d.feed.Add(in)

	if in.Level == domain.LevelCritical {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.fanOut(ownerID, n)
		}()
	}

	return n
}

// Wait blocks until in-flight fan-outs complete. Used at shutdown so
// dispatches triggered before stop can finish, per best-effort semantics.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// fanOut loads the user's channel preferences and issues one independent
// call per enabled channel
func (d *Dispatcher) fanOut(ownerID string, n domain.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	prefs, err := d.prefs.GetPreferences(ctx, ownerID)
	cancel()
	if err != nil {
		logger.WriteLog(constants.LOG_LEVEL_WARN, n.DeviceID, "DISPATCH",
			fmt.Sprintf("Preference lookup failed, defaulting to all channels: %v", err))
		prefs = domain.DefaultPreferences()
	}

	concatenated := fmt.Sprintf("%s: %s", n.Title, n.Message)

	type channelCall struct {
		gateway *GatewayClient
		payload map[string]interface{}
	}

	var calls []channelCall

	if prefs.PushEnabled && d.gateways.Push.Enabled() {
		calls = append(calls, channelCall{d.gateways.Push, map[string]interface{}{
			"title":    n.Title,
			"body":     n.Message,
			"deviceId": n.DeviceID,
			"level":    n.Level,
		}})
	}
	if prefs.EmailEnabled && d.gateways.Email.Enabled() {
		calls = append(calls, channelCall{d.gateways.Email, map[string]interface{}{
			"subject":  n.Title,
			"text":     n.Message,
			"deviceId": n.DeviceID,
			"level":    n.Level,
		}})
	}
	if prefs.SMSEnabled && d.gateways.SMS.Enabled() {
		calls = append(calls, channelCall{d.gateways.SMS, map[string]interface{}{
			"message":  concatenated,
			"deviceId": n.DeviceID,
			"level":    n.Level,
		}})
	}
	if prefs.WhatsappEnabled && d.gateways.Whatsapp.Enabled() {
		calls = append(calls, channelCall{d.gateways.Whatsapp, map[string]interface{}{
			"message":  concatenated,
			"deviceId": n.DeviceID,
			"level":    n.Level,
		}})
	}

	// Channels run concurrently; one stuck or failing gateway never
	// prevents the others from being attempted
	var channels sync.WaitGroup
	for _, call := range calls {
		channels.Add(1)
		go func(call channelCall) {
			defer channels.Done()
			if err := call.gateway.Send(context.Background(), call.payload); err != nil {
				logger.WriteLog(constants.LOG_LEVEL_ERROR, n.DeviceID, "DISPATCH",
					fmt.Sprintf("Channel delivery failed: %v", err))
				return
			}
			logger.WriteLog(constants.LOG_LEVEL_DEBUG, n.DeviceID, "DISPATCH",
				fmt.Sprintf("Delivered via %s", call.gateway.Name))
		}(call)
	}
	channels.Wait()
}
