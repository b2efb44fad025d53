package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/erasetools/ataerase/pkg/erase"
)

type metricCollector struct {
	m []prometheus.Metric
}

func (mc *metricCollector) Collect(c chan<- prometheus.Metric) {
	for _, m := range mc.m {
		c <- m
	}
}

func (mc *metricCollector) Describe(c chan<- *prometheus.Desc) {
}

func outputMetrics(devs []erase.Device) error {
	var (
		mDriveInfo = prometheus.NewDesc(
			"ata_erase_drive_info",
			"Info metric regarding the detected drives",
			[]string{"device", "model"}, nil,
		)
		mSupported = prometheus.NewDesc(
			"ata_erase_supported",
			"Boolean describing whether a drive supports SECURITY ERASE UNIT",
			[]string{"device"}, nil,
		)
	)
	mc := &metricCollector{}
	for _, d := range devs {
		mc.m = append(mc.m,
			prometheus.MustNewConstMetric(mDriveInfo, prometheus.GaugeValue, 1, d.Path, d.Model),
			prometheus.MustNewConstMetric(mSupported, prometheus.GaugeValue, 1, d.Path))
	}

	reg := prometheus.NewPedanticRegistry()
	reg.MustRegister(mc)

	mfs, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %v", err)
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(os.Stdout, mf); err != nil {
			return fmt.Errorf("serialize metrics: %v", err)
		}
	}
	return nil
}
