package metrics

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/golang/snappy"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/prometheus/prompb"
	"go.uber.org/zap"
)

// StartRemoteWrite pushes the registry to the configured remote-write endpoint every flush
// interval until ctx is done. It returns immediately when no endpoint is configured.
func (c *Collector) StartRemoteWrite(ctx context.Context) {
	if c == nil || c.config.RemoteWriteURL == "" {
		return
	}

	interval := c.config.FlushInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	client := &http.Client{Timeout: 30 * time.Second}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.push(ctx, client); err != nil {
				c.logger.Warn("Remote write failed", zap.Error(err))
			}
		}
	}
}

func (c *Collector) push(ctx context.Context, client *http.Client) error {
	mfs, err := c.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	series := metricsToSeries(mfs, time.Now())
	if len(series) == 0 {
		return nil
	}

	batchSize := c.config.BatchSize
	if batchSize <= 0 {
		batchSize = len(series)
	}

	for i := 0; i < len(series); i += batchSize {
		end := min(i+batchSize, len(series))
		if err := c.sendBatch(ctx, client, series[i:end]); err != nil {
			return fmt.Errorf("failed to send batch: %w", err)
		}
	}

	return nil
}

// metricsToSeries flattens gathered families into remote-write series. Histograms expand
// into their bucket, sum and count series the way the exposition format names them.
func metricsToSeries(mfs []*dto.MetricFamily, now time.Time) []prompb.TimeSeries {
	var series []prompb.TimeSeries
	ts := now.UnixMilli()

	add := func(name string, base []prompb.Label, value float64, extra ...prompb.Label) {
		labels := make([]prompb.Label, 0, len(base)+len(extra)+1)
		labels = append(labels, base...)
		labels = append(labels, extra...)
		labels = append(labels, prompb.Label{Name: "__name__", Value: name})
		sort.Slice(labels, func(i, j int) bool { return labels[i].Name < labels[j].Name })

		series = append(series, prompb.TimeSeries{
			Labels:  labels,
			Samples: []prompb.Sample{{Value: value, Timestamp: ts}},
		})
	}

	for _, mf := range mfs {
		name := mf.GetName()
		for _, m := range mf.Metric {
			base := make([]prompb.Label, 0, len(m.Label))
			for _, l := range m.Label {
				base = append(base, prompb.Label{Name: l.GetName(), Value: l.GetValue()})
			}

			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				add(name, base, m.Counter.GetValue())
			case dto.MetricType_GAUGE:
				add(name, base, m.Gauge.GetValue())
			case dto.MetricType_UNTYPED:
				add(name, base, m.Untyped.GetValue())
			case dto.MetricType_HISTOGRAM:
				hist := m.Histogram
				for _, bucket := range hist.Bucket {
					add(name+"_bucket", base, float64(bucket.GetCumulativeCount()),
						prompb.Label{Name: "le", Value: fmt.Sprintf("%g", bucket.GetUpperBound())})
				}
				add(name+"_bucket", base, float64(hist.GetSampleCount()), prompb.Label{Name: "le", Value: "+Inf"})
				add(name+"_sum", base, hist.GetSampleSum())
				add(name+"_count", base, float64(hist.GetSampleCount()))
			}
		}
	}

	return series
}

func (c *Collector) sendBatch(ctx context.Context, client *http.Client, series []prompb.TimeSeries) error {
	req := &prompb.WriteRequest{Timeseries: series}

	data, err := req.Marshal()
	if err != nil {
		return err
	}

	compressed := snappy.Encode(nil, data)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.RemoteWriteURL, bytes.NewReader(compressed))
	if err != nil {
		return err
	}

	httpReq.Header.Set("Content-Type", "application/x-protobuf")
	httpReq.Header.Set("Content-Encoding", "snappy")
	httpReq.Header.Set("X-Prometheus-Remote-Write-Version", "0.1.0")
	if c.config.TenantID != "" && c.config.TenantHeader != "" {
		httpReq.Header.Set(c.config.TenantHeader, c.config.TenantID)
	}
	if c.config.AuthToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.AuthToken)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("remote write failed: %s", resp.Status)
	}

	return nil
}
