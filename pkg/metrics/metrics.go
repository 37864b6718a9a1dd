// Package metrics contadores Prometheus del quiz, expuestos en /metrics
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quizgate",
		Name:      "runs_started_total",
		Help:      "Partidas iniciadas.",
	})

	RunsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quizgate",
		Name:      "runs_finished_total",
		Help:      "Partidas terminadas por resultado.",
	}, []string{"result"})

	LockoutsArmed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "quizgate",
		Name:      "lockouts_armed_total",
		Help:      "Bloqueos armados tras un fallo.",
	})

	BankQuestions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "quizgate",
		Name:      "bank_questions",
		Help:      "Preguntas válidas en el banco actual.",
	})

	AdminLogins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quizgate",
		Name:      "admin_logins_total",
		Help:      "Intentos de login de administración por resultado.",
	}, []string{"result"})
)
