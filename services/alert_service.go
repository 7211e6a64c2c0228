package services

import (
	"log"
	"sync"
	"time"
)

const alertCooldown = 10 * time.Minute

// AlertService watches the partition verdict and notifies on the
// transition into suspicion. Edge-triggered with a cooldown so a
// persistent outage does not flood the channel.
type AlertService struct {
	engine  *Engine
	discord *DiscordBotService

	mutex         sync.Mutex
	lastSuspected bool
	lastAlertAt   time.Time

	stopChan chan struct{}
}

func NewAlertService(engine *Engine, discord *DiscordBotService) *AlertService {
	return &AlertService{
		engine:   engine,
		discord:  discord,
		stopChan: make(chan struct{}),
	}
}

func (as *AlertService) Start() {
	log.Println("Starting alert service...")

	ticker := time.NewTicker(30 * time.Second)

	go func() {
		for {
			select {
			case <-ticker.C:
				as.evaluate()
			case <-as.stopChan:
				ticker.Stop()
				return
			}
		}
	}()
}

func (as *AlertService) Stop() {
	close(as.stopChan)
}

func (as *AlertService) evaluate() {
	verdict := as.engine.Verdict()

	as.mutex.Lock()
	fire := verdict.Suspected &&
		(!as.lastSuspected || time.Since(as.lastAlertAt) > alertCooldown)
	as.lastSuspected = verdict.Suspected
	if fire {
		as.lastAlertAt = time.Now()
	}
	as.mutex.Unlock()

	if !fire {
		return
	}

	log.Printf("Partition alert: %s", verdict.Reason)

	if as.discord.Enabled() {
		if err := as.discord.SendPartitionAlert(verdict, as.engine.Summary()); err != nil {
			log.Printf("Failed to send partition alert: %v", err)
		}
	}
}
