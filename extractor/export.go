package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// ScrapeToJSON runs one inventory scrape and saves the response to filename
func (o *Orchestrator) ScrapeToJSON(ctx context.Context, storeName, query, zip, filename string) error {
	resp, err := o.ScrapeInventory(ctx, storeName, query, zip)
	if err != nil {
		return err
	}

	jsonData, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal inventory to JSON: %w", err)
	}

	if err := writeToFile(filename, jsonData); err != nil {
		return fmt.Errorf("failed to write inventory to file: %w", err)
	}

	o.logger.Infof("Inventory saved to %s", filename)
	return nil
}

// writeToFile writes data to a file
func writeToFile(filename string, data []byte) error {
	return os.WriteFile(filename, data, 0644)
}
