package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"

	"github.com/Brownie44l1/litert-classify/internal/classify"
	"github.com/Brownie44l1/litert-classify/internal/model"
	_ "github.com/Brownie44l1/litert-classify/internal/model/litert"
	_ "github.com/Brownie44l1/litert-classify/internal/model/onnx"
)

func main() {
	modelPath := flag.String("model", "mobilenet_v2.tflite", "path to the compiled model (.tflite or .onnx)")
	imagePath := flag.String("image", "", "path to the image to classify")
	labelsPath := flag.String("labels", "imagenet_lsvrc_2015_synsets.txt", "path to the class identifier list")
	metadataPath := flag.String("metadata", "imagenet_metadata.txt", "path to the identifier to label mapping")
	topK := flag.Int("top_k", classify.DefaultTopK, "number of ranked results to print")
	flag.Parse()

	if *imagePath == "" {
		fmt.Fprintln(os.Stderr, "an image to classify is required")
		flag.Usage()
		os.Exit(2)
	}
	if _, err := os.Stat(*modelPath); err != nil {
		log.Fatalf("Model file not found: %s", *modelPath)
	}
	if _, err := os.Stat(*imagePath); err != nil {
		log.Fatalf("Image file not found: %s", *imagePath)
	}

	img, err := loadImage(*imagePath)
	if err != nil {
		log.Fatalf("Failed to decode image: %v", err)
	}

	m, err := model.Open(*modelPath)
	if err != nil {
		log.Fatalf("Failed to load model: %v", err)
	}
	defer m.Close()

	pipeline := classify.New(m, classify.Options{
		ModelName: *modelPath,
		ClassList: *labelsPath,
		Metadata:  *metadataPath,
		TopK:      *topK,
	})
	if err := pipeline.Run(img, os.Stdout); err != nil {
		log.Fatalf("Classification failed: %v", err)
	}
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, nil
}
