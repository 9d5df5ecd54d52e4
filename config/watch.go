package config

import (
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch 监听配置文件 文件被写入或替换后重新加载并回调
// 监听的是所在目录 编辑器保存时常常是先删后建
func Watch(filePath string, onChange func(*AppConfig)) (stop func(), err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(filePath)); err != nil {
		watcher.Close()
		return nil, err
	}

	target := filepath.Clean(filePath)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
					cfg, err := Reload(filePath)
					if err != nil {
						// 写到一半的文件解析失败 等下一次事件
						log.Printf("config reload %s: %v", filePath, err)
						continue
					}
					log.Printf("config reloaded from %s", filePath)
					if onChange != nil {
						onChange(cfg)
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Println("config watcher error:", err)
			}
		}
	}()

	return func() {
		watcher.Close()
		<-done
	}, nil
}
